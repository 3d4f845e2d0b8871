package density

import "testing"

func TestEmitHashConsesIdenticalSubtrees(t *testing.T) {
	c := NewCompiler()
	shared := ConstDesc{Value: 3}
	left, err := c.Emit(BinaryDesc{Op: TagBinaryAdd, Left: shared, Right: ConstDesc{Value: 1}})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	right, err := c.Emit(BinaryDesc{Op: TagBinaryAdd, Left: shared, Right: ConstDesc{Value: 2}})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	stack := c.Stack()
	if stack[left].Inputs[0] != stack[right].Inputs[0] {
		t.Errorf("two emissions of the same ConstDesc got different stack slots: %d != %d",
			stack[left].Inputs[0], stack[right].Inputs[0])
	}
}

func TestEmitRejectsInvalidClampEnvelope(t *testing.T) {
	c := NewCompiler()
	_, err := c.Emit(ClampDesc{Input: ConstDesc{Value: 0}, Min: 5, Max: -5})
	if err == nil {
		t.Error("Emit with Min > Max: want error, got nil")
	}
}

func TestValidateStackDetectsCycle(t *testing.T) {
	s := Stack{
		{Tag: TagConstant, Min: 0, Max: 0},
		{Tag: TagBinaryAdd, Inputs: []int{1, 0}, Min: 0, Max: 0}, // self-reference at index 1
	}
	if err := ValidateStack(s); err == nil {
		t.Error("ValidateStack with a self-referencing component: want error, got nil")
	}
}

func TestValidateStackDetectsOutOfBoundsInput(t *testing.T) {
	s := Stack{
		{Tag: TagConstant, Min: 0, Max: 0},
		{Tag: TagBinaryAdd, Inputs: []int{0, 5}, Min: 0, Max: 0},
	}
	if err := ValidateStack(s); err == nil {
		t.Error("ValidateStack with an out-of-bounds input: want error, got nil")
	}
}

func TestValidateStackDetectsInvertedEnvelope(t *testing.T) {
	s := Stack{{Tag: TagConstant, Min: 5, Max: -5}}
	if err := ValidateStack(s); err == nil {
		t.Error("ValidateStack with Min > Max: want error, got nil")
	}
}

func TestBuildBinaryMulEnvelopeCoversMixedSigns(t *testing.T) {
	lo, hi := mulEnvelope(-2, 3, -1, 4)
	// candidates: -2*-1=2, -2*4=-8, 3*-1=-3, 3*4=12
	if lo != -8 || hi != 12 {
		t.Errorf("mulEnvelope(-2,3,-1,4) = (%v,%v), want (-8,12)", lo, hi)
	}
}

func TestRangeChoiceEnvelopeUnionsBothBranches(t *testing.T) {
	c := NewCompiler()
	idx, err := c.Emit(RangeChoiceDesc{
		Selector: ConstDesc{Value: 0.5},
		WhenIn:   ConstDesc{Value: -10},
		WhenOut:  ConstDesc{Value: 10},
		Min:      0, Max: 1,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	comp := c.Stack()[idx]
	if comp.Min != -10 || comp.Max != 10 {
		t.Errorf("RangeChoice envelope = [%v,%v], want [-10,10]", comp.Min, comp.Max)
	}
}
