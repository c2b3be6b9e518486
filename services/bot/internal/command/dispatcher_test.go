package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"dorm-link/pkg/logger"
	"dorm-link/services/bot/internal/entity"
	"dorm-link/services/bot/internal/service/authapi"

	"github.com/stretchr/testify/assert"
)

type fakeLinkUseCase struct {
	bound    [][2]string
	bindErr  error
	unlinked bool
	status   *entity.LinkStatus
}

func (f *fakeLinkUseCase) Bind(userID, chatID string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound = append(f.bound, [2]string{userID, chatID})
	return nil
}

func (f *fakeLinkUseCase) Unbind(chatID string) (bool, error) {
	return f.unlinked, nil
}

func (f *fakeLinkUseCase) Status(chatID string) (*entity.LinkStatus, error) {
	if f.status == nil {
		return &entity.LinkStatus{Linked: false}, nil
	}
	return f.status, nil
}

type fakeValidator struct {
	userID string
	err    error
	calls  []string
}

func (f *fakeValidator) Validate(ctx context.Context, code string) (string, error) {
	f.calls = append(f.calls, code)
	return f.userID, f.err
}

func buildTestDispatcher(links *fakeLinkUseCase, validator *fakeValidator) *Dispatcher {
	return BuildDispatcher(links, validator, logger.New())
}

func TestDispatch_EmptyTextIgnored(t *testing.T) {
	d := buildTestDispatcher(&fakeLinkUseCase{}, &fakeValidator{})

	reply := d.Dispatch(context.Background(), "chat1", "   ")

	assert.Empty(t, reply)
}

func TestDispatch_UnknownCommandListsHelp(t *testing.T) {
	d := buildTestDispatcher(&fakeLinkUseCase{}, &fakeValidator{})

	reply := d.Dispatch(context.Background(), "chat1", "/weather")

	assert.Contains(t, reply, "Unknown command")
	assert.Contains(t, reply, "/auth")
	assert.Contains(t, reply, "/unlink")
	assert.Contains(t, reply, "/status")
	assert.Contains(t, reply, "/help")
}

func TestDispatch_CaseInsensitiveCommand(t *testing.T) {
	d := buildTestDispatcher(&fakeLinkUseCase{}, &fakeValidator{})

	reply := d.Dispatch(context.Background(), "chat1", "/HELP")

	assert.Contains(t, reply, "Available commands")
}

func TestDispatch_PanicContained(t *testing.T) {
	d := NewDispatcher(logger.New())
	d.Register("/boom", func(ctx context.Context, chatID string, args []string) string {
		panic("handler bug")
	})

	reply := d.Dispatch(context.Background(), "chat1", "/boom")

	assert.Equal(t, "Something went wrong. Please try again later.", reply)
}

func TestAuth_RequiresExactlyOneArgument(t *testing.T) {
	validator := &fakeValidator{}
	d := buildTestDispatcher(&fakeLinkUseCase{}, validator)

	reply := d.Dispatch(context.Background(), "chat1", "/auth")
	assert.Contains(t, reply, "Usage: /auth")

	reply = d.Dispatch(context.Background(), "chat1", "/auth 123456 extra")
	assert.Contains(t, reply, "Usage: /auth")

	assert.Empty(t, validator.calls)
}

func TestAuth_RejectsMalformedCodeWithoutValidatorCall(t *testing.T) {
	validator := &fakeValidator{}
	d := buildTestDispatcher(&fakeLinkUseCase{}, validator)

	for _, code := range []string{"12345", "1234567", "abcdef", "12a456"} {
		reply := d.Dispatch(context.Background(), "chat1", "/auth "+code)
		assert.Contains(t, reply, "6 digits")
	}

	assert.Empty(t, validator.calls)
}

func TestAuth_LinksOnValidCode(t *testing.T) {
	links := &fakeLinkUseCase{}
	validator := &fakeValidator{userID: "u1"}
	d := buildTestDispatcher(links, validator)

	reply := d.Dispatch(context.Background(), "chat42", "/auth 123456")

	assert.Contains(t, reply, "linked")
	assert.Equal(t, []string{"123456"}, validator.calls)
	assert.Equal(t, [][2]string{{"u1", "chat42"}}, links.bound)
}

func TestAuth_ExpiredCode(t *testing.T) {
	links := &fakeLinkUseCase{}
	validator := &fakeValidator{err: authapi.ErrCodeNotFound}
	d := buildTestDispatcher(links, validator)

	reply := d.Dispatch(context.Background(), "chat1", "/auth 123456")

	assert.Contains(t, reply, "invalid or has expired")
	assert.Empty(t, links.bound)
}

func TestAuth_ValidatorUnavailable(t *testing.T) {
	links := &fakeLinkUseCase{}
	validator := &fakeValidator{err: errors.New("connection refused")}
	d := buildTestDispatcher(links, validator)

	reply := d.Dispatch(context.Background(), "chat1", "/auth 123456")

	assert.Contains(t, reply, "try again later")
	assert.Empty(t, links.bound)
}

func TestUnlink_NothingLinked(t *testing.T) {
	d := buildTestDispatcher(&fakeLinkUseCase{unlinked: false}, &fakeValidator{})

	reply := d.Dispatch(context.Background(), "chat1", "/unlink")

	assert.Contains(t, reply, "No account is linked")
}

func TestUnlink_Removed(t *testing.T) {
	d := buildTestDispatcher(&fakeLinkUseCase{unlinked: true}, &fakeValidator{})

	reply := d.Dispatch(context.Background(), "chat1", "/unlink")

	assert.Contains(t, reply, "unlinked")
}

func TestStatus_NotLinked(t *testing.T) {
	d := buildTestDispatcher(&fakeLinkUseCase{}, &fakeValidator{})

	reply := d.Dispatch(context.Background(), "chat1", "/status")

	assert.Contains(t, reply, "not linked")
}

func TestStatus_Linked(t *testing.T) {
	linkedAt := time.Now().Add(-2 * time.Hour)
	d := buildTestDispatcher(&fakeLinkUseCase{
		status: &entity.LinkStatus{Linked: true, LinkedAt: &linkedAt},
	}, &fakeValidator{})

	reply := d.Dispatch(context.Background(), "chat1", "/status")

	assert.Contains(t, reply, "linked to your account")
	assert.Contains(t, reply, "2 hours ago")
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanDuration(tt.d))
	}
}
