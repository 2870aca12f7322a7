package pagination

import "testing"

func TestNormalizeAppliesDefaults(t *testing.T) {
	p := Normalize(Params{}, 4)
	if p.Page != 1 || p.PageSize != 4 {
		t.Fatalf("unexpected params: %+v", p)
	}

	p = Normalize(Params{Page: -3, PageSize: 0}, 4)
	if p.Page != 1 || p.PageSize != 4 {
		t.Fatalf("unexpected params: %+v", p)
	}

	p = Normalize(Params{Page: 7, PageSize: 25}, 4)
	if p.Page != 7 || p.PageSize != 25 {
		t.Fatalf("explicit params should survive: %+v", p)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 1, PageSize: 4}
	if p.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", p.Offset())
	}

	p = Params{Page: 3, PageSize: 4}
	if p.Offset() != 8 {
		t.Fatalf("expected offset 8, got %d", p.Offset())
	}
}

func TestNewMetaBounds(t *testing.T) {
	meta := NewMeta(Params{Page: 1, PageSize: 4}, 6)
	if meta.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", meta.TotalPages)
	}
	if meta.HasPrevious || !meta.HasNext {
		t.Fatalf("unexpected bounds: %+v", meta)
	}

	meta = NewMeta(Params{Page: 2, PageSize: 4}, 6)
	if !meta.HasPrevious || meta.HasNext {
		t.Fatalf("unexpected bounds: %+v", meta)
	}

	meta = NewMeta(Params{Page: 1, PageSize: 4}, 0)
	if meta.TotalPages != 0 || meta.HasNext {
		t.Fatalf("empty set should have no pages: %+v", meta)
	}
}
