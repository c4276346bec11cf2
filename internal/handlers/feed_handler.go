package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/learnloop/learnloop-backend/internal/services"
	"github.com/learnloop/learnloop-backend/internal/visibility"
)

type FeedHandler struct {
	feedService *services.FeedService
	postService *services.PostService
}

func NewFeedHandler(feedService *services.FeedService, postService *services.PostService) *FeedHandler {
	return &FeedHandler{feedService: feedService, postService: postService}
}

func (h *FeedHandler) Home(c *fiber.Ctx) error {
	viewer := visibility.FromCtx(c)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.feedService.Home(viewer, page, limit)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *FeedHandler) Topics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"topics": models.Topics})
}

func (h *FeedHandler) Topic(c *fiber.Ctx) error {
	viewer := visibility.FromCtx(c)
	topic := c.Params("topic")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.feedService.Topic(viewer, topic, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTopic) {
			return badRequest(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *FeedHandler) AuthorPosts(c *fiber.Ctx) error {
	authorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	viewer := visibility.FromCtx(c)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.feedService.Author(viewer, authorID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, "User not found")
		}
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *FeedHandler) Profile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	user, err := h.postService.GetUser(userID)
	if err != nil {
		return notFound(c, "User not found")
	}

	return c.JSON(services.UserProjection(user, false))
}

func (h *FeedHandler) Comments(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID")
	}

	viewer := visibility.FromCtx(c)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.feedService.Comments(viewer, postID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return notFound(c, "Post not found")
		}
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *FeedHandler) Saved(c *fiber.Ctx) error {
	userID, err := visibility.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	viewer := visibility.FromCtx(c)
	viewer.UserID = &userID
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.feedService.Saved(viewer, page, limit)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}
