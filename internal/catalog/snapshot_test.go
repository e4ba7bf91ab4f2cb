package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/bon-scanner/internal/model"
)

func testSnapshot() Snapshot {
	return NewSnapshot(
		[]model.Product{
			{ID: 1, CategoryID: 10, Name: "Butter"},
			{ID: 2, CategoryID: 11, Name: "Brot"},
			{ID: 3, CategoryID: 99, Name: "Kaffee"},
		},
		[]model.Category{
			{ID: 10, Name: "Dairy"},
			{ID: 11, Name: "Bakery"},
		},
	)
}

func TestSnapshotMatch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Match
		snapshot Snapshot
	}{
		{
			name:     "exact match",
			snapshot: testSnapshot(),
			input:    "Butter",
			want:     Match{Product: "Butter", Category: "Dairy", Distance: 0, Matched: true},
		},
		{
			name:     "typo within threshold",
			snapshot: testSnapshot(),
			input:    "Buter",
			want:     Match{Product: "Butter", Category: "Dairy", Distance: 1, Matched: true},
		},
		{
			name:     "transposition counts once",
			snapshot: testSnapshot(),
			input:    "Bort",
			want:     Match{Product: "Brot", Category: "Bakery", Distance: 1, Matched: true},
		},
		{
			name:     "unrelated name is kept raw",
			snapshot: testSnapshot(),
			input:    "Quietly Unrelated Item",
			want:     Match{Product: "Quietly Unrelated Item", Distance: 16},
		},
		{
			name:     "dangling category",
			snapshot: testSnapshot(),
			input:    "Kaffe",
			want:     Match{Product: "Kaffee", Distance: 1, Matched: true},
		},
		{
			name:     "empty catalog",
			snapshot: NewSnapshot(nil, nil),
			input:    "Milch",
			want:     Match{Product: "Milch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.snapshot.Match(tt.input)
			if tt.want.Matched {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.False(t, got.Matched)
			assert.Equal(t, tt.want.Product, got.Product)
			assert.Empty(t, got.Category)
		})
	}
}

func TestSnapshotMatchThresholdIsExclusive(t *testing.T) {
	snapshot := NewSnapshot([]model.Product{{ID: 1, CategoryID: 1, Name: "abcdefgh"}}, []model.Category{{ID: 1, Name: "Test"}})

	got := snapshot.Match("abcdxyz")
	assert.Equal(t, 4, got.Distance)
	assert.False(t, got.Matched)

	got = snapshot.Match("abcdefxy")
	assert.Equal(t, 2, got.Distance)
	assert.True(t, got.Matched)

	snapshot.Threshold = 5
	assert.True(t, snapshot.Match("abcdxyz").Matched)
}

func TestSnapshotMatchTiesPreferFirstProduct(t *testing.T) {
	snapshot := NewSnapshot(
		[]model.Product{
			{ID: 1, CategoryID: 1, Name: "Milch"},
			{ID: 2, CategoryID: 2, Name: "Milck"},
		},
		[]model.Category{{ID: 1, Name: "Dairy"}, {ID: 2, Name: "Other"}},
	)

	got := snapshot.Match("Milcx")
	assert.Equal(t, "Milch", got.Product)
	assert.Equal(t, "Dairy", got.Category)
}
