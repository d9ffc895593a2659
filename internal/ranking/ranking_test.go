package ranking

import (
	"testing"
	"time"

	"github.com/neonverse/wordboard/internal/models"
)

func topics(ids ...int64) []models.Topic {
	list := make([]models.Topic, len(ids))
	for i, id := range ids {
		list[i] = models.Topic{ID: id}
	}
	return list
}

func idsOf(list []models.Topic) []int64 {
	ids := make([]int64, len(list))
	for i, t := range list {
		ids[i] = t.ID
	}
	return ids
}

func TestMergeTopics(t *testing.T) {
	tests := []struct {
		name     string
		primary  []models.Topic
		extra    []models.Topic
		limit    int
		expected []int64
	}{
		{
			"disjoint sets concatenate",
			topics(1, 2, 3), topics(4, 5), 15,
			[]int64{1, 2, 3, 4, 5},
		},
		{
			"duplicates dropped keeping first position",
			topics(1, 2, 3), topics(3, 4, 1), 15,
			[]int64{1, 2, 3, 4},
		},
		{
			"cap applies across both sets",
			topics(1, 2, 3), topics(4, 5, 6), 4,
			[]int64{1, 2, 3, 4},
		},
		{
			"empty primary",
			nil, topics(7), 15,
			[]int64{7},
		},
		{
			"both empty",
			nil, nil, 15,
			[]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idsOf(mergeTopics(tt.primary, tt.extra, tt.limit))
			if len(got) != len(tt.expected) {
				t.Fatalf("mergeTopics() ids = %v, want %v", got, tt.expected)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("position %d = %d, want %d", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 8, 31, 17, 42, 9, 123, time.UTC)
	got := startOfDay(in)

	expected := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("startOfDay() = %v, want %v", got, expected)
	}
}

func TestCacheTTL(t *testing.T) {
	s := &Service{}

	if s.cacheTTL("new") >= s.cacheTTL("trending") {
		t.Error("new listings should be cached for less time than trending")
	}
	if s.cacheTTL("unknown") != 60*time.Second {
		t.Errorf("default TTL = %v, want 60s", s.cacheTTL("unknown"))
	}
}
