package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"golang.org/x/time/rate"

	"github.com/incurian/nexus3/internal/procutil"
	"github.com/incurian/nexus3/internal/skill"
)

// gitSpawnLimiter bounds how often this skill may fork a git subprocess, so a
// runaway agent loop can't fork-bomb the host. Grounded in spec.md's
// domain-stack wiring of golang.org/x/time/rate to C12's subprocess spawns.
var gitSpawnLimiter = rate.NewLimiter(rate.Limit(5), 5)

// gitTimeout bounds how long a single git invocation may run before its
// process tree is terminated. Grounded in original_source/.../git.py's
// GIT_TIMEOUT.
const gitTimeout = 30 * time.Second

// readOnlyGitCommands are permitted under LevelSandboxed.
var readOnlyGitCommands = map[string]bool{
	"status": true, "diff": true, "log": true, "show": true, "branch": true,
	"remote": true, "blame": true, "rev-parse": true, "describe": true,
	"ls-files": true, "ls-tree": true, "shortlog": true, "tag": true,
}

// dangerousGitFlags blocks specific subcommand+flag combinations in every
// mode except LevelYolo, matching DANGEROUS_FLAGS in the original.
var dangerousGitFlags = map[string]map[string]string{
	"reset": {"--hard": "discards uncommitted changes"},
	"push": {
		"-f": "rewrites remote history", "--force": "rewrites remote history",
		"--force-with-lease": "rewrites remote history",
	},
	"clean":  {"-f": "deletes untracked files", "-d": "deletes untracked directories"},
	"rebase": {"-i": "requires terminal interaction", "--interactive": "requires terminal interaction"},
	"checkout": {"--orphan": "destroys branch history"},
}

// VCSSkill runs git commands with permission-based filtering. Grounded in
// original_source/.../git.py's GitSkill.
type VCSSkill struct{ svc *skill.Services }

func NewVCSSkill(svc *skill.Services) skill.Skill { return &VCSSkill{svc: svc} }

func (s *VCSSkill) Name() string        { return "git" }
func (s *VCSSkill) Description() string { return "Execute git commands with permission-based filtering" }
func (s *VCSSkill) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{"type": "string", "description": "Git command to run (e.g., 'status', 'diff HEAD~1', 'log -5')"},
			"cwd":     map[string]any{"type": "string", "description": "Working directory (default: current directory)"},
		},
		"required": []string{"command"},
	}
}

// checkDangerousFlags inspects args[1:] (the parsed command, not the raw
// string) for blocked flags, including combined short flags like -fd.
func checkDangerousFlags(baseCmd string, args []string) string {
	dangerous, ok := dangerousGitFlags[baseCmd]
	if !ok {
		return ""
	}
	for _, arg := range args[1:] {
		if strings.HasPrefix(arg, "--") {
			if reason, blocked := dangerous[arg]; blocked {
				return fmt.Sprintf("Command blocked: %s %s %s", baseCmd, arg, reason)
			}
			continue
		}
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			for _, c := range arg[1:] {
				flag := "-" + string(c)
				if reason, blocked := dangerous[flag]; blocked {
					return fmt.Sprintf("Command blocked: %s %s %s", baseCmd, flag, reason)
				}
			}
		}
	}
	return ""
}

// validateGitCommand shlex-splits command FIRST, then validates the parsed
// argument list — never the raw string — so quoting can't smuggle a
// dangerous flag past a regex check. Mirrors _validate_command.
func validateGitCommand(command string, level skill.PermissionLevel) ([]string, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("no git command provided")
	}
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid command syntax: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no git command provided")
	}

	baseCmd := strings.ToLower(args[0])

	if level != skill.LevelYolo {
		if msg := checkDangerousFlags(baseCmd, args); msg != "" {
			return nil, fmt.Errorf("%s", msg)
		}
	}

	if level == skill.LevelSandboxed {
		if !readOnlyGitCommands[baseCmd] {
			return nil, fmt.Errorf("only read-only git commands allowed in sandboxed mode. Allowed: %s", sortedKeys(readOnlyGitCommands))
		}
	}

	return args, nil
}

func sortedKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return strings.Join(keys, ", ")
}

var (
	statusAheadRe  = regexp.MustCompile(`ahead of .+ by (\d+)`)
	statusBehindRe = regexp.MustCompile(`behind .+ by (\d+)`)
)

type gitStatus struct {
	Branch    *string  `json:"branch"`
	Ahead     int      `json:"ahead"`
	Behind    int      `json:"behind"`
	Staged    []string `json:"staged"`
	Unstaged  []string `json:"unstaged"`
	Untracked []string `json:"untracked"`
}

func parseGitStatus(stdout string) gitStatus {
	result := gitStatus{Staged: []string{}, Unstaged: []string{}, Untracked: []string{}}
	inUntracked := false
	inStagedSection := false
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.HasPrefix(line, "On branch "):
			branch := strings.TrimSpace(line[len("On branch "):])
			result.Branch = &branch
		case strings.Contains(line, "ahead of"):
			if m := statusAheadRe.FindStringSubmatch(line); m != nil {
				result.Ahead, _ = strconv.Atoi(m[1])
			}
		case strings.Contains(line, "behind"):
			if m := statusBehindRe.FindStringSubmatch(line); m != nil {
				result.Behind, _ = strconv.Atoi(m[1])
			}
		case strings.Contains(line, "Changes to be committed"):
			inStagedSection = true
		case strings.Contains(line, "Untracked files:"):
			inUntracked = true
		case strings.HasPrefix(line, "\tnew file:"):
			result.Staged = append(result.Staged, strings.TrimSpace(strings.SplitN(line, ":", 2)[1]))
		case strings.HasPrefix(line, "\tmodified:"):
			if inStagedSection {
				result.Staged = append(result.Staged, strings.TrimSpace(strings.SplitN(line, ":", 2)[1]))
			} else {
				result.Unstaged = append(result.Unstaged, strings.TrimSpace(strings.SplitN(line, ":", 2)[1]))
			}
		case strings.HasPrefix(line, "\t") && inUntracked:
			result.Untracked = append(result.Untracked, strings.TrimSpace(line))
		}
	}
	return result
}

type gitCommit struct {
	SHA     string `json:"sha"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message,omitempty"`
}

func parseGitLog(stdout string) []gitCommit {
	var commits []gitCommit
	var current *gitCommit
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.HasPrefix(line, "commit "):
			if current != nil {
				commits = append(commits, *current)
			}
			current = &gitCommit{SHA: strings.TrimSpace(line[len("commit "):])}
		case current != nil && strings.HasPrefix(line, "Author:"):
			current.Author = strings.TrimSpace(line[len("Author:"):])
		case current != nil && strings.HasPrefix(line, "Date:"):
			current.Date = strings.TrimSpace(line[len("Date:"):])
		case current != nil && strings.TrimSpace(line) != "" && current.Message == "":
			current.Message = strings.TrimSpace(line)
		}
	}
	if current != nil {
		commits = append(commits, *current)
	}
	return commits
}

func (s *VCSSkill) Execute(ctx context.Context, args skill.Args) skill.Result {
	command := args.String("command", "")
	cwd := args.String("cwd", ".")

	parsedArgs, err := validateGitCommand(command, s.svc.Permission)
	if err != nil {
		return skill.FailErr(err)
	}

	workDir, err := skill.ResolvePath(s.svc, cwd, true, true)
	if err != nil {
		return skill.FailErr(err)
	}

	if err := gitSpawnLimiter.Wait(ctx); err != nil {
		return skill.FailErr(err)
	}

	runCtx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "git", parsedArgs...)
	cmd.Dir = workDir
	procutil.Prepare(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runCtx.Err() != nil {
		procutil.TerminateTree(cmd, procutil.GracefulTimeout)
		return skill.Fail(fmt.Sprintf("Git command timed out after %s", gitTimeout))
	}

	stdoutStr := strings.TrimSpace(stdout.String())
	stderrStr := strings.TrimSpace(stderr.String())

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			errMsg := stderrStr
			if errMsg == "" {
				errMsg = stdoutStr
			}
			return skill.Fail(fmt.Sprintf("Git error (exit %d): %s", exitErr.ExitCode(), errMsg))
		}
		return skill.Fail("Git is not installed or not in PATH")
	}

	baseCmd := strings.ToLower(parsedArgs[0])
	output := map[string]any{
		"success": true,
		"command": command,
		"output":  stdoutStr,
	}
	switch baseCmd {
	case "status":
		output["parsed"] = parseGitStatus(stdoutStr)
	case "log":
		output["parsed"] = map[string]any{"commits": parseGitLog(stdoutStr)}
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return skill.FailErr(err)
	}
	return skill.OK(string(data))
}
