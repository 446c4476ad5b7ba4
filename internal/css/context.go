package css

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Context is the allocator state of one build: per-bucket style numbering,
// the file number table, the class prefix and the debug switch. The empty
// filename is the bucket shared by every file; it holds CSS variables and
// base (styleOrder 0) styles.
//
// Numbers are only ever added. A Context is safe for concurrent use.
type Context struct {
	mu       sync.Mutex
	classMap map[string]map[string]int
	fileMap  map[string]int
	files    []string
	prefix   string
	debug    bool
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{
		classMap: make(map[string]map[string]int),
		fileMap:  make(map[string]int),
	}
}

// SetPrefix sets the string prepended to every generated name.
func (c *Context) SetPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefix = prefix
}

// Prefix returns the configured name prefix.
func (c *Context) Prefix() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefix
}

// SetDebug toggles readable, non-deduplicated names.
func (c *Context) SetDebug(debug bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debug = debug
}

// Debug reports whether debug naming is on.
func (c *Context) Debug() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.debug
}

// Reset drops every allocation. Prefix and debug settings are kept.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classMap = make(map[string]map[string]int)
	c.fileMap = make(map[string]int)
	c.files = nil
}

// FileNumber returns the number of filename, assigning the next free one on
// first use.
func (c *Context) FileNumber(filename string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileNumber(filename)
}

func (c *Context) fileNumber(filename string) int {
	if n, ok := c.fileMap[filename]; ok {
		return n
	}
	n := len(c.files)
	c.fileMap[filename] = n
	c.files = append(c.files, filename)
	return n
}

// FileName is the inverse of FileNumber.
func (c *Context) FileName(n int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 || n >= len(c.files) {
		return "", false
	}
	return c.files[n], true
}

// lookup returns the number of key inside bucket, inserting it when new.
func (c *Context) lookup(bucket, key string) int {
	m, ok := c.classMap[bucket]
	if !ok {
		m = make(map[string]int)
		c.classMap[bucket] = m
	}
	if n, ok := m[key]; ok {
		return n
	}
	n := len(m)
	m[key] = n
	return n
}

// ClassMap returns a copy of the per-bucket numbering.
func (c *Context) ClassMap() map[string]map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyClassMap()
}

func (c *Context) copyClassMap() map[string]map[string]int {
	ret := make(map[string]map[string]int, len(c.classMap))
	for bucket, m := range c.classMap {
		cp := make(map[string]int, len(m))
		for k, v := range m {
			cp[k] = v
		}
		ret[bucket] = cp
	}
	return ret
}

// FileMap returns a copy of the file number table.
func (c *Context) FileMap() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make(map[string]int, len(c.fileMap))
	for k, v := range c.fileMap {
		ret[k] = v
	}
	return ret
}

// State is the serializable form of a Context.
type State struct {
	Prefix  string                    `json:"prefix,omitempty"`
	Debug   bool                      `json:"debug,omitempty"`
	Files   []string                  `json:"files"`
	Classes map[string]map[string]int `json:"classes"`
}

// State snapshots the context.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Prefix:  c.prefix,
		Debug:   c.debug,
		Files:   append([]string(nil), c.files...),
		Classes: c.copyClassMap(),
	}
}

// Restore replaces the context contents with s. Every bucket must number
// its keys densely from 0 and file names must be unique.
func (c *Context) Restore(s State) error {
	fileMap := make(map[string]int, len(s.Files))
	for i, f := range s.Files {
		if _, dup := fileMap[f]; dup {
			return fmt.Errorf("restore context: duplicate file %q", f)
		}
		fileMap[f] = i
	}
	classMap := make(map[string]map[string]int, len(s.Classes))
	for bucket, m := range s.Classes {
		seen := make([]bool, len(m))
		cp := make(map[string]int, len(m))
		for k, n := range m {
			if n < 0 || n >= len(m) || seen[n] {
				return fmt.Errorf("restore context: bucket %q: invalid number %d for %q", bucket, n, k)
			}
			seen[n] = true
			cp[k] = n
		}
		classMap[bucket] = cp
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefix = s.Prefix
	c.debug = s.Debug
	c.files = append([]string(nil), s.Files...)
	c.fileMap = fileMap
	c.classMap = classMap
	return nil
}

func (c *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.State())
}

func (c *Context) UnmarshalJSON(data []byte) error {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode context: %w", err)
	}
	return c.Restore(s)
}

// Merge folds others into c in argument order. Numbering is renumbered
// canonically: files and style keys receive the next free number in the
// order they are first seen walking the contexts left to right, each
// context's keys visited in their own numbering order. Merging the same
// inputs in the same order always yields the same state.
func (c *Context) Merge(others ...*Context) {
	for _, o := range others {
		if o == nil || o == c {
			continue
		}
		s := o.State()

		c.mu.Lock()
		for _, f := range s.Files {
			c.fileNumber(f)
		}
		buckets := make([]string, 0, len(s.Classes))
		for bucket := range s.Classes {
			buckets = append(buckets, bucket)
		}
		sort.Strings(buckets)
		for _, bucket := range buckets {
			for _, key := range keysByNumber(s.Classes[bucket]) {
				c.lookup(bucket, key)
			}
		}
		c.mu.Unlock()
	}
}

func keysByNumber(m map[string]int) []string {
	keys := make([]string, len(m))
	for k, n := range m {
		if n >= 0 && n < len(keys) {
			keys[n] = k
		}
	}
	return keys
}
