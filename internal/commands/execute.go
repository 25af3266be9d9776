package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(DoneArgs) (Result, error)
	Habit  func(HabitArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
	Sort   func(SortArgs) (Result, error)
	Set    func(SetArgs) (Result, error)
	Export func(ExportArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeHabit:
		if handlers.Habit == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "habit handler not configured"}
		}
		return handlers.Habit(*cmd.Habit)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "sort handler not configured"}
		}
		return handlers.Sort(*cmd.Sort)
	case TypeSet:
		if handlers.Set == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "set handler not configured"}
		}
		return handlers.Set(*cmd.Set)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "export handler not configured"}
		}
		return handlers.Export(*cmd.Export)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
