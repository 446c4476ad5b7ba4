package css

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassNameDedup(t *testing.T) {
	ctx := NewContext()

	first := ctx.ClassName("background", 0, "red", nil, nil, "")
	second := ctx.ClassName("background", 0, "red", nil, nil, "")
	other := ctx.ClassName("background", 0, "blue", nil, nil, "")

	assert.Equal(t, "a", first)
	assert.Equal(t, first, second)
	assert.Equal(t, "b", other)
}

func TestClassNameNormalizesValue(t *testing.T) {
	ctx := NewContext()
	assert.Equal(t,
		ctx.ClassName("color", 0, "#ff0000", nil, nil, ""),
		ctx.ClassName("color", 0, " #F00 ", nil, nil, ""),
	)
}

func TestClassNameKeyParts(t *testing.T) {
	ctx := NewContext()
	hover := SelectorFrom("hover")
	one := uint8(1)

	names := map[string]bool{
		ctx.ClassName("color", 0, "red", nil, nil, ""):     true,
		ctx.ClassName("color", 1, "red", nil, nil, ""):     true,
		ctx.ClassName("color", 0, "red", &hover, nil, ""):  true,
		ctx.ClassName("color", 0, "red", nil, &one, ""):    true,
		ctx.ClassName("bg", 0, "red", nil, nil, ""):        true,
		ctx.ClassName("color", 0, "red", nil, nil, "a.ts"): true,
	}
	assert.Len(t, names, 6)
}

func TestClassNameFileScoped(t *testing.T) {
	ctx := NewContext()

	a := ctx.ClassName("background", 0, "red", nil, nil, "file1.tsx")
	b := ctx.ClassName("background", 0, "red", nil, nil, "file2.tsx")

	assert.NotEqual(t, a, b)
	assert.Equal(t, "a-a", a)
	assert.Equal(t, "b-a", b)
	assert.Equal(t, 0, ctx.FileNumber("file1.tsx"))
	assert.Equal(t, 1, ctx.FileNumber("file2.tsx"))

	name, ok := ctx.FileName(1)
	require.True(t, ok)
	assert.Equal(t, "file2.tsx", name)
	_, ok = ctx.FileName(2)
	assert.False(t, ok)
}

func TestClassNameBaseStyleOrderIsShared(t *testing.T) {
	ctx := NewContext()
	zero := uint8(0)

	a := ctx.ClassName("display", 0, "flex", nil, &zero, "file1.tsx")
	b := ctx.ClassName("display", 0, "flex", nil, &zero, "file2.tsx")

	assert.Equal(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestClassNamePrefix(t *testing.T) {
	ctx := NewContext()
	ctx.SetPrefix("x-")

	assert.Equal(t, "x-a", ctx.ClassName("color", 0, "red", nil, nil, ""))
	assert.Equal(t, "x-a-a", ctx.ClassName("color", 0, "red", nil, nil, "a.tsx"))
	// variables share the global bucket with base classes
	assert.Equal(t, "--x-b", ctx.VariableName("color", 0, nil))
}

func TestVariableNamePrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "no prefix", want: "--a"},
		{name: "prefix", prefix: "x-", want: "--x-a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			ctx.SetPrefix(tt.prefix)
			assert.Equal(t, tt.want, ctx.VariableName("color", 0, nil))
		})
	}
}

func TestClassNameDebug(t *testing.T) {
	ctx := NewContext()
	ctx.SetDebug(true)
	hover := SelectorFrom("hover")

	assert.Equal(t, "background-0-red--255", ctx.ClassName("background", 0, "red", nil, nil, ""))
	assert.Equal(t, "background-0-red--255", ctx.ClassName("background", 0, "red", nil, nil, ""))
	assert.Equal(t, "color-1-red-_a__c_hover-255", ctx.ClassName("color", 1, "red", &hover, nil, ""))
	assert.Equal(t, "background-0-red--255-0", ctx.ClassName("background", 0, "red", nil, nil, "a.tsx"))
	assert.Equal(t, "--color-0-_a__c_hover", ctx.VariableName("color", 0, &hover))
	assert.Equal(t, "k-spin", ctx.KeyframesName("spin", ""))

	assert.Empty(t, ctx.ClassMap())
}

func TestVariableName(t *testing.T) {
	ctx := NewContext()
	hover := SelectorFrom("hover")

	a := ctx.VariableName("color", 0, nil)
	assert.Equal(t, "--a", a)
	assert.Equal(t, a, ctx.VariableName("color", 0, nil))
	assert.Equal(t, "--b", ctx.VariableName("color", 0, &hover))
	assert.Equal(t, "--c", ctx.VariableName("color", 1, nil))
}

func TestKeyframesName(t *testing.T) {
	ctx := NewContext()

	assert.Equal(t, "k-a", ctx.KeyframesName("spin", ""))
	assert.Equal(t, "k-a", ctx.KeyframesName("spin", ""))
	assert.Equal(t, "k-b", ctx.KeyframesName("fade", ""))
	assert.Equal(t, "k-a-a", ctx.KeyframesName("spin", "a.tsx"))
}

func TestAllocateDispatch(t *testing.T) {
	ctx := NewContext()

	assert.Equal(t, "a", ctx.Allocate(KindClassName, NameRequest{Property: "color", Value: "red"}))
	assert.Equal(t, "--b", ctx.Allocate(KindVariableName, NameRequest{Property: "color"}))
	assert.Equal(t, "k-c", ctx.Allocate(KindKeyframesName, NameRequest{Property: "spin"}))
}

func TestToBase(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "a"},
		{1, "b"},
		{25, "z"},
		{26, "aa"},
		{27, "ba"},
		{52, "ab"},
		{26 * 64, "aaa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToBase(tt.n), "n=%d", tt.n)
	}

	seen := make(map[string]int)
	for n := 0; n < 20000; n++ {
		s := ToBase(n)
		prev, dup := seen[s]
		require.False(t, dup, "%d and %d both render %q", prev, n, s)
		seen[s] = n
		require.NotContains(t, s, "-")
		require.True(t, s[0] >= 'a' && s[0] <= 'z')
	}
}

func TestEncodeSelector(t *testing.T) {
	assert.Equal(t, "_a__c_hover", EncodeSelector("&:hover"))
	assert.Equal(t, "_st__lb_role_eq_group_rb__c_hover_s__a_", EncodeSelector("*[role=group]:hover &"))
	assert.Equal(t, "a_u00e9_", EncodeSelector("aé"))
	assert.Equal(t, "plain-name_1", EncodeSelector("plain-name_1"))
}

func TestContextMerge(t *testing.T) {
	w1 := NewContext()
	w1.ClassName("color", 0, "red", nil, nil, "a.tsx")
	w1.ClassName("color", 0, "blue", nil, nil, "a.tsx")
	w1.ClassName("margin", 0, "0", nil, nil, "")

	w2 := NewContext()
	w2.ClassName("color", 0, "green", nil, nil, "b.tsx")
	w2.ClassName("padding", 0, "4px", nil, nil, "")
	w2.ClassName("margin", 0, "0", nil, nil, "")

	merged := NewContext()
	merged.Merge(w1, w2)

	assert.Equal(t, map[string]int{"a.tsx": 0, "b.tsx": 1}, merged.FileMap())
	assert.Equal(t, "a-b", merged.ClassName("color", 0, "blue", nil, nil, "a.tsx"))
	assert.Equal(t, "b-a", merged.ClassName("color", 0, "green", nil, nil, "b.tsx"))
	assert.Equal(t, "a", merged.ClassName("margin", 0, "0", nil, nil, ""))
	assert.Equal(t, "b", merged.ClassName("padding", 0, "4px", nil, nil, ""))

	again := NewContext()
	again.Merge(w1, w2)
	replay := NewContext()
	replay.Merge(w1, w2)
	assert.Equal(t, again.State(), replay.State())
}

func TestContextJSONRoundTrip(t *testing.T) {
	ctx := NewContext()
	ctx.SetPrefix("p")
	name := ctx.ClassName("color", 0, "red", nil, nil, "a.tsx")
	v := ctx.VariableName("width", 0, nil)

	data, err := json.Marshal(ctx)
	require.NoError(t, err)

	restored := NewContext()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, "p", restored.Prefix())
	assert.Equal(t, name, restored.ClassName("color", 0, "red", nil, nil, "a.tsx"))
	assert.Equal(t, v, restored.VariableName("width", 0, nil))
}

func TestContextRestoreRejectsBadState(t *testing.T) {
	ctx := NewContext()

	err := ctx.Restore(State{Files: []string{"a", "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate file")

	err = ctx.Restore(State{Classes: map[string]map[string]int{"": {"x": 0, "y": 0}}})
	require.Error(t, err)
}

func TestContextReset(t *testing.T) {
	ctx := NewContext()
	ctx.SetPrefix("p")
	ctx.ClassName("color", 0, "red", nil, nil, "a.tsx")
	ctx.Reset()

	assert.Empty(t, ctx.FileMap())
	assert.Empty(t, ctx.ClassMap())
	assert.Equal(t, "p", ctx.Prefix())
}

func TestContextConcurrentAllocation(t *testing.T) {
	ctx := NewContext()
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ctx.ClassName("color", 0, "red", nil, nil, "")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, strings.Repeat("a", 16), strings.Join(results, ""))
}
