package download

import "testing"

func TestIsSharePointURL(t *testing.T) {
	cases := []struct {
		url      string
		expected bool
	}{
		{"https://contoso.sharepoint.com/sites/Finance/doc.xlsx", true},
		{"https://contoso-my.sharepoint.com/personal/user/Documents/x.xlsm", true},
		{"https://onedrive.com/view?id=abc", true},
		{"https://www.office.com/launch/excel", true},
		{"https://example.com/report.xlsx", false},
		{"/local/path/report.xlsx", false},
	}
	for _, c := range cases {
		if got := IsSharePointURL(c.url); got != c.expected {
			t.Errorf("IsSharePointURL(%q): expected %v, got %v", c.url, c.expected, got)
		}
	}
}

func TestFilenameFromURL(t *testing.T) {
	cases := []struct {
		url      string
		expected string
	}{
		{
			"https://contoso.sharepoint.com/Shared%20Documents/Budget%202024.xlsx",
			"Budget 2024.xlsx",
		},
		{
			"https://contoso.sharepoint.com/sites/Finance/Shared%20Documents/reports/q1.xlsm?web=1",
			"q1.xlsm",
		},
		{
			"https://contoso-my.sharepoint.com/personal/user_contoso_com/Documents/model.xlsb",
			"model.xlsb",
		},
		{
			"https://contoso.sharepoint.com/viewer?file=data%2Fplan.xlsx",
			"plan.xlsx",
		},
		{
			"https://contoso.sharepoint.com/:x:/r/some-opaque-link",
			"workbook.xlsx",
		},
	}
	for _, c := range cases {
		if got := FilenameFromURL(c.url); got != c.expected {
			t.Errorf("FilenameFromURL(%q): expected %q, got %q", c.url, c.expected, got)
		}
	}
}

func TestServerRelativePath(t *testing.T) {
	cases := []struct {
		url      string
		expected string
	}{
		{
			"https://contoso.sharepoint.com/:x:/r/sites/Finance/Shared%20Documents/q1.xlsx?d=w1",
			"/sites/Finance/Shared Documents/q1.xlsx",
		},
		{
			"https://contoso.sharepoint.com/Shared%20Documents/budget.xlsx",
			"/Shared Documents/budget.xlsx",
		},
		{
			"https://contoso-my.sharepoint.com/personal/user_contoso_com/Documents/model.xlsm",
			"/personal/user_contoso_com/Documents/model.xlsm",
		},
		{
			"https://contoso.sharepoint.com/some/other/page",
			"",
		},
	}
	for _, c := range cases {
		if got := serverRelativePath(c.url); got != c.expected {
			t.Errorf("serverRelativePath(%q): expected %q, got %q", c.url, c.expected, got)
		}
	}
}

func TestDirectCandidates(t *testing.T) {
	candidates := directCandidates("https://contoso.sharepoint.com/Shared%20Documents/budget.xlsx")
	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d: %v", len(candidates), candidates)
	}
	expected := "https://contoso.sharepoint.com/_api/web/GetFileByServerRelativeUrl('/Shared Documents/budget.xlsx')/$value"
	if candidates[0] != expected {
		t.Errorf("Expected REST candidate %q, got %q", expected, candidates[0])
	}
	if candidates[2] != "https://contoso.sharepoint.com/Shared%20Documents/budget.xlsx?download=1" {
		t.Errorf("Unexpected download parameter candidate: %q", candidates[2])
	}

	withQuery := directCandidates("https://contoso.sharepoint.com/page?web=1")
	last := withQuery[len(withQuery)-1]
	if last != "https://contoso.sharepoint.com/page?web=1&download=1" {
		t.Errorf("Expected & separator for existing query, got %q", last)
	}
}
