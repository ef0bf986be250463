package ir

import (
	"fmt"
	"sort"
)

// Annotation is a diagnostic over an inclusive range of sentence-relative
// token positions. Position 0 is the first token after the begin marker.
type Annotation struct {
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Code        string   `json:"code"`
	Text        string   `json:"text"`
	Detail      string   `json:"detail,omitempty"`
	Suggest     string   `json:"suggest,omitempty"`
	SuggestList []string `json:"suggestlist,omitempty"`
	Original    string   `json:"original,omitempty"`
}

// Len returns the number of tokens the annotation spans.
func (a Annotation) Len() int {
	return a.End - a.Start + 1
}

// String returns the display form used when annotations are echoed under
// corrected text, e.g. "003-003: S004   Orðið er rangt | 'Spánar' -> 'Spáni'".
func (a Annotation) String() string {
	suffix := ""
	if a.Original != "" && a.Suggest != "" {
		suffix = fmt.Sprintf(" | '%s' -> '%s'", a.Original, a.Suggest)
	}
	return fmt.Sprintf("%03d-%03d: %-6s %s%s", a.Start, a.End, a.Code, a.Text, suffix)
}

func annotationLess(a, b Annotation) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}

// SortAnnotations sorts in place by (start, end) ascending, so narrower
// annotations sharing a start come before broader ones. The sort is stable.
func SortAnnotations(anns []Annotation) {
	sort.SliceStable(anns, func(i, j int) bool {
		return annotationLess(anns[i], anns[j])
	})
}

// SortedDescending returns a copy ordered by (start, end) descending.
func SortedDescending(anns []Annotation) []Annotation {
	out := make([]Annotation, len(anns))
	copy(out, anns)
	sort.SliceStable(out, func(i, j int) bool {
		return annotationLess(out[j], out[i])
	})
	return out
}
