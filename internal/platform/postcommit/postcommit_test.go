package postcommit

import (
	"context"
	"errors"
	"testing"

	"rescue-office/internal/platform/logger"
)

func TestRun_ContinuesAfterFailure(t *testing.T) {
	var ran []string

	Run(context.Background(), logger.Nop(),
		Hook{Name: "a", Run: func(ctx context.Context) error {
			ran = append(ran, "a")
			return errors.New("index down")
		}},
		Hook{Name: "b", Run: func(ctx context.Context) error {
			ran = append(ran, "b")
			return nil
		}},
	)

	if len(ran) != 2 || ran[0] != "a" || ran[1] != "b" {
		t.Fatalf("expected both hooks to run in order, got %v", ran)
	}
}

func TestRun_RecoversPanic(t *testing.T) {
	ran := false

	Run(context.Background(), logger.Nop(),
		Hook{Name: "boom", Run: func(ctx context.Context) error {
			panic("notifier exploded")
		}},
		Hook{Name: "after", Run: func(ctx context.Context) error {
			ran = true
			return nil
		}},
	)

	if !ran {
		t.Fatalf("expected hook after panic to run")
	}
}

func TestRun_NilHookAndNilLogger(t *testing.T) {
	// no debe explotar sin logger ni con Run nil
	Run(context.Background(), nil,
		Hook{Name: "empty"},
		Hook{Name: "fails", Run: func(ctx context.Context) error { return errors.New("x") }},
	)
}
