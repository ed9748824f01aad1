package encoding

import "sort"

// NameMap implements a bidirectional mapping between a name and an index
type NameMap struct {
	NameToIndex map[string]int
	IndexToName map[int]string
}

func NewNameMap() *NameMap {
	return &NameMap{
		NameToIndex: map[string]int{},
		IndexToName: map[int]string{},
	}
}

// NewVocabulary indexes the distinct values in sorted order.
func NewVocabulary(values []string) *NameMap {
	distinct := NewSet(values...).Sorted()
	vocabulary := NewNameMap()
	for i, name := range distinct {
		vocabulary.Set(name, i)
	}
	return vocabulary
}

func (f *NameMap) Set(name string, index int) {
	f.NameToIndex[name] = index
	f.IndexToName[index] = name
}

func (f *NameMap) Size() int {
	return len(f.IndexToName)
}

func (f *NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// Set is a set of category values. Values are bool so that the set survives gob encoding.
type Set map[string]bool

func NewSet(values ...string) Set {
	set := Set{}
	for _, val := range values {
		set[val] = true
	}
	return set
}

func (s Set) Contains(value string) bool {
	return s[value]
}

func (s Set) Sorted() []string {
	result := make([]string, 0, len(s))
	for v := range s {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}
