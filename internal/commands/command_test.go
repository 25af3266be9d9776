package commands

import (
	"errors"
	"testing"
	"time"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent by:2025-07-01", TypeAdd},
		{"done pay rent", TypeDone},
		{"habit morning exercise", TypeHabit},
		{"show tasks prio:high", TypeShow},
		{"sort priority", TypeSort},
		{"set theme light", TypeSet},
		{"export tasks backup.json", TypeExport},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddExtractsDeadlineAndPriority(t *testing.T) {
	cmd, err := Parse("add pay rent by:2025-07-01 prio:high")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Title != "pay rent" {
		t.Fatalf("title: %q", cmd.Add.Title)
	}
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	if !cmd.Add.Deadline.Equal(want) {
		t.Fatalf("deadline: got %v want %v", cmd.Add.Deadline, want)
	}
	if cmd.Add.Priority != "high" {
		t.Fatalf("priority: %q", cmd.Add.Priority)
	}
}

func TestParseAddRejectsBadDeadline(t *testing.T) {
	_, err := Parse("add pay rent by:tomorrow")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", err)
	}
}

func TestParseSortRejectsUnknownKey(t *testing.T) {
	_, err := Parse("sort urgency")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", err)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/done write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Done: func(d DoneArgs) (Result, error) {
			called = true
			if d.Ref != "write docs" {
				t.Fatalf("unexpected ref: %q", d.Ref)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("show tasks")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
