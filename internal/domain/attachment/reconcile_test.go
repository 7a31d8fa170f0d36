package attachment

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

func file(name string) entity.FileHandle {
	return &entity.MemoryFile{FileName: name, Content: []byte(name)}
}

func TestReconcile_PureCreation(t *testing.T) {
	f1, f2 := file("f1.png"), file("f2.png")

	result := Reconcile(nil, []entity.AttachmentRef{entity.Pending(f1), entity.Pending(f2)})

	assert.Empty(t, result.Kept)
	assert.Empty(t, result.Deleted)
	assert.Equal(t, []entity.FileHandle{f1, f2}, result.Added)
}

func TestReconcile_PureDeletion(t *testing.T) {
	baseline := []entity.AttachmentRef{entity.Persisted("a"), entity.Persisted("b")}
	current := []entity.AttachmentRef{entity.Persisted("a")}

	result := Reconcile(baseline, current)

	assert.Equal(t, []string{"a"}, result.Kept)
	assert.Equal(t, []string{"b"}, result.Deleted)
	assert.Empty(t, result.Added)
}

func TestReconcile_EmptyCurrentDeletesEverything(t *testing.T) {
	baseline := []entity.AttachmentRef{entity.Persisted("a"), entity.Persisted("b")}

	result := Reconcile(baseline, nil)

	assert.Empty(t, result.Kept)
	assert.Equal(t, []string{"a", "b"}, result.Deleted)
	assert.Empty(t, result.Added)
}

func TestReconcile_NoOpEdit(t *testing.T) {
	f := file("new.png")
	x := []entity.AttachmentRef{entity.Persisted("a"), entity.Persisted("b")}

	result := Reconcile(x, x)

	assert.Equal(t, []string{"a", "b"}, result.Kept)
	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.Added)

	t.Run("pending in baseline is ignored", func(t *testing.T) {
		withPending := append([]entity.AttachmentRef{entity.Pending(f)}, x...)
		result := Reconcile(withPending, x)
		assert.Equal(t, []string{"a", "b"}, result.Kept)
		assert.Empty(t, result.Deleted)
		assert.Empty(t, result.Added)
	})
}

func TestReconcile_DuplicatesCollapse(t *testing.T) {
	baseline := []entity.AttachmentRef{
		entity.Persisted("a"), entity.Persisted("b"), entity.Persisted("b"), entity.Persisted("a"),
	}
	current := []entity.AttachmentRef{entity.Persisted("a"), entity.Persisted("a")}

	result := Reconcile(baseline, current)

	assert.Equal(t, []string{"a"}, result.Kept)
	assert.Equal(t, []string{"b"}, result.Deleted)
}

func TestReconcile_MalformedEntriesFiltered(t *testing.T) {
	baseline := []entity.AttachmentRef{entity.Persisted(""), entity.Persisted("a"), {}}
	current := []entity.AttachmentRef{entity.Pending(nil), entity.Persisted(""), entity.Persisted("a")}

	result := Reconcile(baseline, current)

	assert.Equal(t, []string{"a"}, result.Kept)
	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.Added)
}

func TestReconcile_MixedScenario(t *testing.T) {
	file2 := file("file2.png")
	baseline := []entity.AttachmentRef{entity.Persisted("img1.png"), entity.Persisted("img2.png")}
	current := []entity.AttachmentRef{entity.Persisted("img1.png"), entity.Pending(file2)}

	result := Reconcile(baseline, current)

	assert.Equal(t, []string{"img1.png"}, result.Kept)
	assert.Equal(t, []string{"img2.png"}, result.Deleted)
	require.Len(t, result.Added, 1)
	assert.Same(t, file2, result.Added[0])
}

func TestReconcile_UnknownPersistedInCurrentIgnored(t *testing.T) {
	result := Reconcile(nil, []entity.AttachmentRef{entity.Persisted("elsewhere.png")})

	assert.Empty(t, result.Kept)
	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.Added)
}

// Kept and Deleted must rebuild the persisted url set of baseline, and Added
// must be exactly the pending files of current, for arbitrary inputs.
func TestReconcile_Completeness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	urls := []string{"a", "b", "c", "d", "e"}

	randomRefs := func(n int, allowPending bool) []entity.AttachmentRef {
		refs := make([]entity.AttachmentRef, 0, n)
		for i := 0; i < n; i++ {
			if allowPending && rng.Intn(3) == 0 {
				refs = append(refs, entity.Pending(file(fmt.Sprintf("p%d", i))))
				continue
			}
			refs = append(refs, entity.Persisted(urls[rng.Intn(len(urls))]))
		}
		return refs
	}

	for i := 0; i < 200; i++ {
		baseline := randomRefs(rng.Intn(8), false)
		current := randomRefs(rng.Intn(8), true)

		result := Reconcile(baseline, current)

		want := map[string]bool{}
		for _, r := range baseline {
			want[r.URL()] = true
		}
		got := map[string]bool{}
		for _, u := range append(append([]string{}, result.Kept...), result.Deleted...) {
			assert.False(t, got[u], "url %s reported twice", u)
			got[u] = true
		}
		assert.Equal(t, sortedKeys(want), sortedKeys(got))

		var pending []entity.FileHandle
		for _, r := range current {
			if r.Kind() == entity.AttachmentPending {
				pending = append(pending, r.File())
			}
		}
		assert.ElementsMatch(t, pending, result.Added)
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
