package commands

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeHabit  Type = "habit"
	TypeShow   Type = "show"
	TypeSort   Type = "sort"
	TypeSet    Type = "set"
	TypeExport Type = "export"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs captures `add <title> [by:YYYY-MM-DD] [prio:low|medium|high]`.
// A missing deadline means today.
type AddArgs struct {
	Title    string
	Deadline time.Time
	Priority string
}

// DoneArgs captures `done <task-ref>`; the reference is matched against task
// ids and titles by the handler.
type DoneArgs struct {
	Ref string
}

// HabitArgs captures `habit <name>`.
type HabitArgs struct {
	Ref string
}

// ShowArgs captures `show tasks|habits|overdue|upcoming [prio:..] [status:..]`.
type ShowArgs struct {
	Subject  string
	Priority string
	Status   string
}

// SortArgs captures `sort deadline|priority|name`.
type SortArgs struct {
	By string
}

// SetArgs captures `set <key> <value>`.
type SetArgs struct {
	Key   string
	Value string
}

// ExportArgs captures `export tasks|settings <path>`.
type ExportArgs struct {
	Subject string
	Path    string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Habit  *HabitArgs
	Show   *ShowArgs
	Sort   *SortArgs
	Set    *SetArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeHabit:
		return parseHabit(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeSet:
		return parseSet(input, args)
	case TypeExport:
		return parseExport(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	out := AddArgs{}
	titleWords := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "by:"):
			val := arg[len("by:"):]
			deadline, err := time.ParseInLocation("2006-01-02", val, time.Local)
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad deadline %q, want by:YYYY-MM-DD", val)}
			}
			out.Deadline = deadline
		case strings.HasPrefix(lower, "prio:"):
			out.Priority = strings.TrimPrefix(lower, "prio:")
		default:
			titleWords = append(titleWords, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(titleWords, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task reference"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Ref: strings.Join(args, " ")}}, nil
}

func parseHabit(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "habit requires a habit name"}
	}
	return Command{Type: TypeHabit, Raw: raw, Habit: &HabitArgs{Ref: strings.Join(args, " ")}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	out := ShowArgs{Subject: strings.ToLower(args[0])}
	for _, arg := range args[1:] {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "prio:"):
			out.Priority = strings.TrimPrefix(lower, "prio:")
		case strings.HasPrefix(lower, "status:"):
			out.Status = strings.TrimPrefix(lower, "status:")
		}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &out}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires one of: deadline, priority, name"}
	}
	by := strings.ToLower(args[0])
	switch by {
	case "deadline", "priority", "name":
		return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{By: by}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort key: %s", by)}
	}
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a key and a value"}
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Key: args[0], Value: strings.Join(args[1:], " ")}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "export requires a subject and a path"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "tasks", "settings":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot export %q, want tasks or settings", subject)}
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Subject: subject, Path: strings.Join(args[1:], " ")}}, nil
}
