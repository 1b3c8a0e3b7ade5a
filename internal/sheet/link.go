package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

var (
	// ErrLinkForbidden carries the hint users actually need: the sheet's
	// share setting, not our code, is what usually breaks.
	ErrLinkForbidden   = errors.New("không thể tải dữ liệu từ link, hãy kiểm tra quyền chia sẻ (Anyone with the link)")
	ErrUnsupportedLink = errors.New("link không hợp lệ, cần link Google Sheets đã chia sẻ")

	docIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9\-_]+)`)
	gidPattern   = regexp.MustCompile(`[?#&]gid=(\d+)`)
)

// ExportURL derives the export-as-CSV endpoint from a shared spreadsheet
// link, carrying over the sheet id (gid) when the link names one.
func ExportURL(link string) (string, error) {
	m := docIDPattern.FindStringSubmatch(link)
	if m == nil {
		return "", ErrUnsupportedLink
	}
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", m[1])
	if g := gidPattern.FindStringSubmatch(link); g != nil {
		url += "&gid=" + g[1]
	}
	return url, nil
}

// Fetcher downloads published spreadsheet links.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// FetchLink downloads a shared link's CSV export and parses it into raw
// rows. Any network or permission failure aborts before a single row is
// staged.
func (f *Fetcher) FetchLink(ctx context.Context, link string) ([][]string, error) {
	url, err := ExportURL(link)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLinkForbidden, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w (HTTP %d)", ErrLinkForbidden, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLinkForbidden, err)
	}
	return ParseCSV(body)
}
