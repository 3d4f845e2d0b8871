package density

import "testing"

func TestClassifyZonesColumnOnlyIsZoneA(t *testing.T) {
	c := NewCompiler()
	root, err := c.Emit(ConstDesc{Value: 1})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	stack := c.Stack()
	classifyZones(stack, map[string]int{"root": root}, "root")
	if stack[root].Zone != ZoneA {
		t.Errorf("a PerBlock=false component got Zone %v, want ZoneA", stack[root].Zone)
	}
}

func TestClassifyZonesPrimaryOnlyIsZoneB(t *testing.T) {
	c := NewCompiler()
	grad := GradientDesc{Params: GradientParams{FromY: 0, ToY: 256, FromValue: -1, ToValue: 1}}
	root, err := c.Emit(grad)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	stack := c.Stack()
	classifyZones(stack, map[string]int{"primary": root}, "primary")
	if stack[root].Zone != ZoneB {
		t.Errorf("a component reachable only from the primary root got Zone %v, want ZoneB", stack[root].Zone)
	}
}

func TestClassifyZonesSharedWithSecondaryRootIsZoneC(t *testing.T) {
	c := NewCompiler()
	grad := GradientDesc{Params: GradientParams{FromY: 0, ToY: 256, FromValue: -1, ToValue: 1}}
	shared, err := c.Emit(grad)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	stack := c.Stack()
	classifyZones(stack, map[string]int{"primary": shared, "secondary": shared}, "primary")
	if stack[shared].Zone != ZoneC {
		t.Errorf("a component reachable from both roots got Zone %v, want ZoneC", stack[shared].Zone)
	}
}

func TestAssignZonesKeepsTopologicalOrder(t *testing.T) {
	// A cache barrier forced to Zone A wrapping a per-block (Zone B) child:
	// the barrier must still land after its child in the reordered stack.
	c := NewCompiler()
	grad := GradientDesc{Params: GradientParams{FromY: 0, ToY: 256, FromValue: -1, ToValue: 1}}
	root, err := c.Emit(CacheDesc{Kind: TagFlatCacheBarrier, Input: grad})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	zoned, roots := AssignZones(c.Stack(), map[string]int{"root": root}, "root")
	if err := ValidateStack(zoned); err != nil {
		t.Fatalf("AssignZones produced a non-topological stack: %v", err)
	}
	barrier := zoned[roots["root"]]
	if barrier.Tag != TagFlatCacheBarrier {
		t.Fatalf("root is %v, want FlatCacheBarrier", barrier.Tag)
	}
	if barrier.Inputs[0] >= roots["root"] {
		t.Errorf("barrier's child sits at or after the barrier itself (%d >= %d)", barrier.Inputs[0], roots["root"])
	}
}
