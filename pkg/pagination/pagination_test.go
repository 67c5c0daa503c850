package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/moodlog/pkg/pagination"
	"github.com/JaimeStill/moodlog/pkg/query"
)

var limits = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name        string
		cfg         pagination.Config
		env         map[string]string
		wantDefault int
		wantMax     int
		wantErr     string
	}{
		{name: "zero config gets defaults", wantDefault: 20, wantMax: 100},
		{
			name:        "env overrides",
			env:         map[string]string{"MOOD_PAGE_DEFAULT": "50", "MOOD_PAGE_MAX": "250"},
			wantDefault: 50,
			wantMax:     250,
		},
		{
			name:        "unparseable env ignored",
			env:         map[string]string{"MOOD_PAGE_DEFAULT": "lots"},
			wantDefault: 20,
			wantMax:     100,
		},
		{
			name:    "default above max",
			cfg:     pagination.Config{DefaultPageSize: 200, MaxPageSize: 100},
			wantErr: "default_page_size 200 exceeds max_page_size 100",
		},
		{
			name:    "negative env value",
			env:     map[string]string{"MOOD_PAGE_MAX": "-1"},
			wantErr: "max_page_size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := tt.cfg
			err := cfg.Finalize(&pagination.ConfigEnv{
				DefaultPageSize: "MOOD_PAGE_DEFAULT",
				MaxPageSize:     "MOOD_PAGE_MAX",
			})

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			if cfg.DefaultPageSize != tt.wantDefault || cfg.MaxPageSize != tt.wantMax {
				t.Errorf("got default=%d max=%d, want %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize, tt.wantDefault, tt.wantMax)
			}
		})
	}
}

func TestConfigMergeKeepsUnsetFields(t *testing.T) {
	base := limits
	base.Merge(&pagination.Config{MaxPageSize: 500})

	if base.DefaultPageSize != 20 || base.MaxPageSize != 500 {
		t.Errorf("merged = %+v", base)
	}
}

func TestNormalize(t *testing.T) {
	blank := ""
	happy := "happy"

	tests := []struct {
		name       string
		req        pagination.PageRequest
		wantPage   int
		wantSize   int
		wantSearch bool
	}{
		{name: "zero request", wantPage: 1, wantSize: 20},
		{name: "negative page", req: pagination.PageRequest{Page: -4, PageSize: 10}, wantPage: 1, wantSize: 10},
		{name: "oversized page", req: pagination.PageRequest{Page: 2, PageSize: 1000}, wantPage: 2, wantSize: 100},
		{name: "blank search dropped", req: pagination.PageRequest{Search: &blank}, wantPage: 1, wantSize: 20},
		{name: "search kept", req: pagination.PageRequest{Page: 3, PageSize: 5, Search: &happy}, wantPage: 3, wantSize: 5, wantSearch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Normalize(limits)

			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("page=%d size=%d, want %d/%d", req.Page, req.PageSize, tt.wantPage, tt.wantSize)
			}
			if (req.Search != nil) != tt.wantSearch {
				t.Errorf("search = %v, want present=%v", req.Search, tt.wantSearch)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	for _, tt := range []struct{ page, size, want int }{
		{1, 20, 0},
		{2, 20, 20},
		{4, 15, 45},
	} {
		req := pagination.PageRequest{Page: tt.page, PageSize: tt.size}
		if got := req.Offset(); got != tt.want {
			t.Errorf("page %d size %d: Offset() = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	req := pagination.PageRequestFromQuery(url.Values{
		"page":      {"2"},
		"page_size": {"15"},
		"search":    {"long day"},
		"sort":      {"mood,-timestamp"},
	}, limits)

	if req.Page != 2 || req.PageSize != 15 {
		t.Errorf("page=%d size=%d", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "long day" {
		t.Errorf("search = %v", req.Search)
	}
	want := pagination.SortFields{{Field: "mood"}, {Field: "timestamp", Descending: true}}
	if len(req.Sort) != len(want) || req.Sort[0] != want[0] || req.Sort[1] != want[1] {
		t.Errorf("sort = %v, want %v", req.Sort, want)
	}

	garbage := pagination.PageRequestFromQuery(url.Values{"page": {"x"}, "page_size": {"-3"}}, limits)
	if garbage.Page != 1 || garbage.PageSize != 20 || garbage.Search != nil {
		t.Errorf("garbage query = %+v, want defaults", garbage)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		page         int
		size         int
		wantPages    int
		wantNext     bool
		wantPrevious bool
	}{
		{name: "first of five", total: 100, page: 1, size: 20, wantPages: 5, wantNext: true},
		{name: "partial last page", total: 101, page: 6, size: 20, wantPages: 6, wantPrevious: true},
		{name: "middle", total: 45, page: 2, size: 20, wantPages: 3, wantNext: true, wantPrevious: true},
		{name: "empty", total: 0, page: 1, size: 20, wantPages: 1},
		{name: "zero size", total: 10, page: 1, size: 0, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.NewPageResult([]string{"happy"}, tt.total, tt.page, tt.size)

			if res.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", res.TotalPages, tt.wantPages)
			}
			if res.HasNext != tt.wantNext || res.HasPrevious != tt.wantPrevious {
				t.Errorf("next=%v previous=%v, want %v/%v", res.HasNext, res.HasPrevious, tt.wantNext, tt.wantPrevious)
			}
		})
	}
}

func TestNewPageResultEncodesEmptyData(t *testing.T) {
	body, err := json.Marshal(pagination.NewPageResult[string](nil, 0, 1, 20))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `"data":[]`) {
		t.Errorf("body = %s, want empty data array", body)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	want := []query.SortField{{Field: "mood"}, {Field: "timestamp", Descending: true}}

	for name, input := range map[string]string{
		"string": `"mood,-timestamp"`,
		"array":  `[{"Field":"mood"},{"Field":"timestamp","Descending":true}]`,
	} {
		t.Run(name, func(t *testing.T) {
			var sf pagination.SortFields
			if err := json.Unmarshal([]byte(input), &sf); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(sf) != 2 || sf[0] != want[0] || sf[1] != want[1] {
				t.Errorf("got %v, want %v", sf, want)
			}
		})
	}

	var sf pagination.SortFields
	if err := json.Unmarshal([]byte(`42`), &sf); err == nil {
		t.Error("numeric sort should fail")
	}
}
