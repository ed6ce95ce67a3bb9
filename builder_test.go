package crossing

import (
	"context"
	"strings"
	"testing"
)

func TestMachineBuilder_SimpleMachine(t *testing.T) {
	definition, err := NewMachine().
		State("red").Initial().
		To("green").On("go").
		State("green").
		To("red").On("halt").
		Build()
	if err != nil {
		t.Fatalf("Expected no build error, got: %v", err)
	}

	machine := definition.CreateInstance()
	AssertState(t, machine, "red")
	_ = machine.Start()
	AssertEventProcessed(t, machine.HandleEvent(context.Background(), "go", nil), true)
	AssertState(t, machine, "green")
	AssertEventProcessed(t, machine.HandleEvent(context.Background(), "halt", nil), true)
	AssertState(t, machine, "red")
}

func TestMachineBuilder_InstancesAreIndependent(t *testing.T) {
	definition, err := NewMachine().
		State("red").Initial().
		To("green").On("go").
		State("green").
		Build()
	if err != nil {
		t.Fatalf("Expected no build error, got: %v", err)
	}

	first := definition.CreateInstance()
	second := definition.CreateInstance()
	_ = first.Start()
	_ = second.Start()

	_ = first.HandleEvent(context.Background(), "go", nil)

	AssertState(t, first, "green")
	AssertState(t, second, "red")
}

func TestMachineBuilder_ReopenStateAddsTransitions(t *testing.T) {
	machine := newInstance(t, NewMachine().
		State("red").Initial().
		To("green").On("go").
		State("green").
		State("red").
		To("amber").On("caution").
		State("amber"))
	_ = machine.Start()

	AssertStateChanged(t, machine.HandleEvent(context.Background(), "caution", nil), "red", "amber")
}

func TestMachineBuilder_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		builder buildable
		issue   string
	}{
		{
			name:    "no initial state",
			builder: NewMachine().State("red"),
			issue:   "no initial state",
		},
		{
			name:    "missing target",
			builder: NewMachine().State("red").Initial().To("green").On("go"),
			issue:   "target state 'green' does not exist",
		},
		{
			name:    "missing event",
			builder: NewMachine().State("red").Initial().To("green").State("green"),
			issue:   "has no event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			definition, err := tt.builder.Build()
			if definition != nil {
				t.Error("Expected no definition for an invalid machine")
			}
			if GetErrorCode(err) != ErrCodeInvalidConfiguration {
				t.Fatalf("Expected ConfigurationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.issue) {
				t.Errorf("Expected error to mention %q, got %q", tt.issue, err.Error())
			}
		})
	}
}
