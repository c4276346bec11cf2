package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/services"
	"github.com/learnloop/learnloop-backend/internal/visibility"
)

type PostHandler struct {
	postService       *services.PostService
	engagementService *services.EngagementService
	feedService       *services.FeedService
}

func NewPostHandler(postService *services.PostService, engagementService *services.EngagementService, feedService *services.FeedService) *PostHandler {
	return &PostHandler{
		postService:       postService,
		engagementService: engagementService,
		feedService:       feedService,
	}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := h.postService.CreatePost(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotVerified):
			return forbidden(c, err.Error())
		case errors.Is(err, services.ErrInvalidTopic),
			errors.Is(err, services.ErrInvalidInput),
			errors.Is(err, services.ErrContentRejected):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return unauthorized(c)
		default:
			return internalError(c)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	viewer := visibility.FromCtx(c)
	post, err := h.postService.GetPost(viewer, postID)
	if err != nil {
		return notFound(c, "Post not found")
	}

	resp, err := h.feedService.EnrichPost(viewer, post)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := h.postService.UpdatePost(userID, postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			return notFound(c, "Post not found")
		case errors.Is(err, services.ErrNotOwner):
			return forbidden(c, err.Error())
		case errors.Is(err, services.ErrInvalidInput),
			errors.Is(err, services.ErrContentRejected):
			return badRequest(c, err.Error())
		default:
			return internalError(c)
		}
	}

	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	if err := h.postService.DeletePost(userID, postID); err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			return notFound(c, "Post not found")
		case errors.Is(err, services.ErrNotOwner):
			return forbidden(c, err.Error())
		default:
			return internalError(c)
		}
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

func (h *PostHandler) CreateComment(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.postService.CreateComment(userID, postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotVerified):
			return forbidden(c, err.Error())
		case errors.Is(err, services.ErrPostNotFound):
			return notFound(c, "Post not found")
		case errors.Is(err, services.ErrInvalidInput),
			errors.Is(err, services.ErrContentRejected):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return unauthorized(c)
		default:
			return internalError(c)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *PostHandler) DeleteComment(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid comment ID")
	}

	if err := h.postService.DeleteComment(userID, commentID); err != nil {
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			return notFound(c, "Comment not found")
		case errors.Is(err, services.ErrNotOwner):
			return forbidden(c, err.Error())
		default:
			return internalError(c)
		}
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

func (h *PostHandler) Vote(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	myVote, err := h.engagementService.VotePost(userID, postID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVote):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrPostNotFound):
			return notFound(c, "Post not found")
		default:
			return internalError(c)
		}
	}

	return c.JSON(fiber.Map{"my_vote": myVote})
}

func (h *PostHandler) VoteComment(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid comment ID")
	}

	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	myVote, err := h.engagementService.VoteComment(userID, commentID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVote):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrCommentNotFound):
			return notFound(c, "Comment not found")
		default:
			return internalError(c)
		}
	}

	return c.JSON(fiber.Map{"my_vote": myVote})
}

func (h *PostHandler) Save(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	saved, err := h.engagementService.ToggleSave(userID, postID)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return notFound(c, "Post not found")
		}
		return internalError(c)
	}

	return c.JSON(fiber.Map{"saved": saved})
}

// --- shared response helpers ---

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
