package command

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"dorm-link/pkg/logger"
	"dorm-link/services/bot/internal/service/authapi"
	"dorm-link/services/bot/internal/usecase"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

const helpText = `Available commands:
/auth <code> - link your dormitory account using a code from the web app
/unlink - unlink your account from this chat
/status - show whether this chat is linked
/help - show this message`

// CodeValidator resolves a one-time linking code into a user id.
type CodeValidator interface {
	Validate(ctx context.Context, code string) (string, error)
}

// BuildDispatcher wires the full command table for the bot.
func BuildDispatcher(linkUseCase usecase.LinkUseCase, validator CodeValidator, log *logger.Logger) *Dispatcher {
	d := NewDispatcher(log)

	d.Register("/start", func(ctx context.Context, chatID string, args []string) string {
		return "Welcome to the dormitory assistant!\n\n" + helpText
	})

	d.Register("/help", func(ctx context.Context, chatID string, args []string) string {
		return helpText
	})

	d.Register("/auth", func(ctx context.Context, chatID string, args []string) string {
		if len(args) != 1 {
			return "Usage: /auth <6-digit code>"
		}
		code := args[0]
		// Cheap format check first, the validator burns the code on a match
		if !codePattern.MatchString(code) {
			return "The code must be exactly 6 digits."
		}

		userID, err := validator.Validate(ctx, code)
		if err != nil {
			if errors.Is(err, authapi.ErrCodeNotFound) {
				return "This code is invalid or has expired. Generate a new one in the web app."
			}
			log.Error("[BOT] Code validation failed for chat %s: %v", chatID, err)
			return "Could not verify the code right now. Please try again later."
		}

		if err := linkUseCase.Bind(userID, chatID); err != nil {
			log.Error("[BOT] Failed to bind user %s to chat %s: %v", userID, chatID, err)
			return "Could not link your account right now. Please try again later."
		}

		return "Your account is now linked. You will receive dormitory notifications here."
	})

	d.Register("/unlink", func(ctx context.Context, chatID string, args []string) string {
		removed, err := linkUseCase.Unbind(chatID)
		if err != nil {
			log.Error("[BOT] Failed to unlink chat %s: %v", chatID, err)
			return "Could not unlink right now. Please try again later."
		}
		if !removed {
			return "No account is linked to this chat."
		}
		return "Your account has been unlinked. You will no longer receive notifications here."
	})

	d.Register("/status", func(ctx context.Context, chatID string, args []string) string {
		status, err := linkUseCase.Status(chatID)
		if err != nil {
			log.Error("[BOT] Failed to get link status for chat %s: %v", chatID, err)
			return "Could not check the link status right now. Please try again later."
		}
		if !status.Linked {
			return "This chat is not linked to any account. Use /auth <code> to link one."
		}
		return fmt.Sprintf("This chat is linked to your account (linked %s).", humanDuration(time.Since(*status.LinkedAt)))
	})

	d.SetFallback(func(ctx context.Context, chatID string, args []string) string {
		return "Unknown command.\n\n" + helpText
	})

	return d
}

// humanDuration renders a rough "time since" phrase.
func humanDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
