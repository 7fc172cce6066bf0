package systems

import (
	"crawler-server/internal/domain"
	"testing"
)

func TestMoveFunctions(t *testing.T) {
	p := domain.Position{X: 5, Z: 5}

	tests := []struct {
		name string
		got  domain.Position
		want domain.Position
	}{
		{"forward north", StepForward(p, domain.North), domain.Position{X: 5, Z: 4}},
		{"forward east", StepForward(p, domain.East), domain.Position{X: 6, Z: 5}},
		{"backward south", StepBackward(p, domain.South), domain.Position{X: 5, Z: 4}},
		{"strafe left facing north", StrafeLeft(p, domain.North), domain.Position{X: 4, Z: 5}},
		{"strafe right facing north", StrafeRight(p, domain.North), domain.Position{X: 6, Z: 5}},
		{"strafe left facing east", StrafeLeft(p, domain.East), domain.Position{X: 5, Z: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestMovementLaws(t *testing.T) {
	p := domain.Position{X: 7, Z: 3}

	for f := domain.North; f <= domain.West; f++ {
		if got := StepBackward(StepForward(p, f), f); got != p {
			t.Errorf("backward(forward) for %s = %v, want %v", f, got, p)
		}
		if got := StrafeRight(StrafeLeft(p, f), f); got != p {
			t.Errorf("strafeRight(strafeLeft) for %s = %v, want %v", f, got, p)
		}
		if got := TurnRight(TurnLeft(f)); got != f {
			t.Errorf("turnRight(turnLeft(%s)) = %s", f, got)
		}
		if got := TurnLeft(TurnLeft(TurnLeft(TurnLeft(f)))); got != f {
			t.Errorf("four left turns from %s = %s", f, got)
		}
		if got := TurnRight(TurnRight(TurnRight(TurnRight(f)))); got != f {
			t.Errorf("four right turns from %s = %s", f, got)
		}
	}

	if TurnLeft(domain.North) != domain.West {
		t.Error("turning left from north should face west")
	}
	if TurnRight(domain.West) != domain.North {
		t.Error("turning right from west should face north")
	}
}

func TestCalculateMove(t *testing.T) {
	grid := createTestGrid(10)
	grid.Cells[5][4].Type = domain.CellWall

	// Test 1: Move into empty space
	start := domain.NewPlayerState(domain.Position{X: 4, Z: 4}, domain.North)
	res := CalculateMove(grid, start, MoveForward)
	if !res.HasMoved {
		t.Error("Expected move to succeed")
	}
	if res.State.Position != (domain.Position{X: 4, Z: 3}) {
		t.Errorf("Expected pos (4,3), got %v", res.State.Position)
	}

	// Test 2: Move into wall
	res = CalculateMove(grid, start, MoveStrafeRight) // (5,4) - стена
	if res.HasMoved || !res.IsWall {
		t.Error("Expected move to fail (wall)")
	}
	if res.State != start {
		t.Error("Blocked move must not change state")
	}

	// Test 3: Move out of bounds
	edge := domain.NewPlayerState(domain.Position{X: 1, Z: 1}, domain.North)
	res = CalculateMove(grid, edge, MoveForward)
	if res.HasMoved {
		t.Error("Expected move to fail (border)")
	}

	// Test 4: Turn always allowed and keeps Direction in sync
	res = CalculateMove(grid, start, MoveTurnRight)
	if !res.Turned || res.State.Facing != domain.East {
		t.Errorf("Expected to face east, got %s", res.State.Facing)
	}
	if res.State.Direction != (domain.Direction{X: 1, Z: 0}) {
		t.Errorf("Direction out of sync: %v", res.State.Direction)
	}
}

func TestParseMoveIntent(t *testing.T) {
	if ParseMoveIntent("Strafe_Left") != MoveStrafeLeft {
		t.Error("expected strafe_left to parse")
	}
	if ParseMoveIntent("jump") != MoveUnknown {
		t.Error("expected unknown intent")
	}
}
