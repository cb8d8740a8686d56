package domain

import "testing"

func TestBillSource_IsState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source BillSource
		want   bool
	}{
		{SourceFederal, false},
		{SourceState, true},
		{SourceLegiScan, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			t.Parallel()
			if got := tt.source.IsState(); got != tt.want {
				t.Errorf("%q.IsState() = %v, want %v", tt.source, got, tt.want)
			}
			if !tt.source.IsValid() {
				t.Errorf("%q.IsValid() = false", tt.source)
			}
		})
	}

	if BillSource("rss").IsValid() {
		t.Error("unknown source reported valid")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"Clean Water Act of 2025", 0, "clean-water-act-of-2025"},
		{"  H.R. 1234: Farm   Relief!! ", 0, "h-r-1234-farm-relief"},
		{"Clean Water Act of 2025", 15, "clean-water-act"},
		{"Clean Water Act of 2025", 16, "clean-water-act"},
		{"---", 0, ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("Slugify(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestBill_ApplyArticle(t *testing.T) {
	t.Parallel()

	b := Bill{Title: "H.R. 1", ExternalID: "HR1-119"}
	b.ApplyArticle(Article{Summary: "s", Body: "b", Slug: "hr-1", Keywords: []string{"tax"}})

	if b.Title != "H.R. 1" {
		t.Errorf("empty article title should keep bill title, got %q", b.Title)
	}
	if !b.Published {
		t.Error("ApplyArticle should publish the bill")
	}
	if b.Slug != "hr-1" || b.Body != "b" || b.Summary != "s" {
		t.Errorf("article fields not applied: %+v", b)
	}
}
