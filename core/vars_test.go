package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleNewMapVarsFromEnvList() {
	vars := NewMapVarsFromEnvList([]string{"A=B", "C=D", "E", "F=G=H"})

	fmt.Printf("Names(): %q\n", vars.Names())
	f, _ := vars.Get("F")
	fmt.Printf("Get(\"F\"): %q\n", f)

	// Output: Names(): ["A" "C" "E" "F"]
	// Get("F"): "G=H"
}

func ExampleMapVars_Remove() {
	vars := NewMapVars()
	vars.Put("A", Text("B"))
	vars.Put("C", Text("D"))

	fmt.Println("Before:", vars.Names())
	fmt.Println("Removed:", vars.Remove("A"))
	fmt.Println("After:", vars.Names())

	// Output: Before: [A C]
	// Removed: B
	// After: [C]
}

func TestMapVars_Put(t *testing.T) {
	vars := NewMapVars()

	assert.Equal(t, Null, vars.Put("a", Text("1")))
	assert.Equal(t, Text("1"), vars.Put("a", Text("2")))

	v, ok := vars.Get("a")
	assert.True(t, ok)
	assert.Equal(t, Text("2"), v)

	_, ok = vars.Get("missing")
	assert.False(t, ok)
}

func TestMapVars_concurrent(t *testing.T) {
	vars := NewMapVars()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("v%d", i)
			vars.Put(name, Text(name))
			vars.Get(name)
			vars.Names()
		}(i)
	}
	wg.Wait()

	assert.Len(t, vars.Names(), 10)
}
