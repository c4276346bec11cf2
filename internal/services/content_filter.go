package services

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrContentRejected = errors.New("content rejected")

// BannedWords is the profanity/slur list enforced on user-facing content.
var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

// ContentFilter screens post, comment, and profile text before it is
// stored. Patterns are compiled once at construction and read-only after
// that. URLs are deliberately allowed: learning posts cite resources by
// link. Emails and phone numbers are not, to keep contact harvesting off
// the platform.
type ContentFilter struct {
	bannedWordRegexps   []*regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		bannedWordRegexps: make([]*regexp.Regexp, 0, len(BannedWords)),
	}
	for _, word := range BannedWords {
		f.bannedWordRegexps = append(f.bannedWordRegexps,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	f.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	f.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	f.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	f.allCapsPattern = regexp.MustCompile(`[A-Z]{5,}`)
	return f
}

// Check returns ErrContentRejected (wrapped with a user-facing message)
// when the text violates a content rule, nil otherwise.
func (f *ContentFilter) Check(text string) error {
	if text == "" {
		return nil
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return rejection("inappropriate_language")
		}
	}
	if f.emailPattern.MatchString(text) || f.phonePattern.MatchString(text) {
		return rejection("contact_info_not_allowed")
	}
	if f.repeatedCharPattern.MatchString(text) {
		return rejection("spam_detected")
	}
	if len(f.allCapsPattern.FindAllString(text, -1)) > 2 {
		return rejection("excessive_caps")
	}
	return nil
}

// ContainsProfanity checks the banned-word list only. Used for
// usernames, where the other heuristics make no sense.
func (f *ContentFilter) ContainsProfanity(text string) bool {
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func rejection(reason string) error {
	messages := map[string]string{
		"inappropriate_language":   "Your content contains inappropriate language.",
		"contact_info_not_allowed": "Contact information is not allowed.",
		"spam_detected":            "Your content appears to be spam.",
		"excessive_caps":           "Please avoid using excessive capital letters.",
	}
	msg, ok := messages[reason]
	if !ok {
		msg = "Your content does not meet our guidelines."
	}
	return fmt.Errorf("%w: %s", ErrContentRejected, msg)
}
