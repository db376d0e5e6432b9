package builtin

import (
	"context"

	"github.com/incurian/nexus3/internal/skill"
)

// EchoSkill echoes its message back. Useful for exercising the skill
// registry without touching the filesystem. Grounded in
// original_source/.../echo.py.
type EchoSkill struct{}

func NewEchoSkill(svc *skill.Services) skill.Skill { return &EchoSkill{} }

func (s *EchoSkill) Name() string        { return "echo" }
func (s *EchoSkill) Description() string { return "Echo back the input message. Useful for testing." }
func (s *EchoSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{"type": "string", "description": "The message to echo back"},
		},
		"required": []string{"message"},
	}
}

func (s *EchoSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	return skill.OK(args.String("message", ""))
}
