/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/scholastic-swiss-td/internal"
)

// registration pages change at most daily
const pageCacheTTL = 1 * time.Hour

var httpClient = internal.NewCachedHttpClient(pageCacheTTL)

// FetchRoster fetches one school's registration page and extracts its
// roster entries.
func FetchRoster(ctx context.Context, url string) ([]Entry, error) {
	doc, err := fetchDoc(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch registration page: %w", err)
	}

	entries := parseRegistrationDoc(doc)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no roster entries found at %v", url)
	}

	return entries, nil
}

// FetchRosters fetches several schools' registration pages concurrently
// and merges their entries. Any single page failure fails the whole
// import; a partial roster pairs incorrectly.
func FetchRosters(ctx context.Context, urls []string) ([]Entry, error) {
	var mtx sync.Mutex
	var merged []Entry

	g, ctx := errgroup.WithContext(ctx)
	for _, url := range urls {
		url := url
		g.Go(func() error {
			entries, err := FetchRoster(ctx, url)
			if err != nil {
				return err
			}
			mtx.Lock()
			defer mtx.Unlock()
			merged = append(merged, entries...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merged, nil
}

// ImportWeb fetches registration pages and registers every extracted
// player. Returns the number of players registered.
func ImportWeb(ctx context.Context, reg Registrar, tournamentID int64,
	urls []string) (int, error) {

	entries, err := FetchRosters(ctx, urls)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if _, err := reg.AddPlayer(ctx, tournamentID, entry.Name,
			entry.Grade, entry.School); err != nil {
			return count, fmt.Errorf("unable to register %v: %w", entry.Name,
				err)
		}
		count++
	}

	return count, nil
}

// parseRegistrationDoc extracts roster entries from a registration
// page. Rows live in table#members with name, grade, school columns;
// the school may also appear once in the page header.
func parseRegistrationDoc(doc *goquery.Document) []Entry {
	defaultSchool := strings.TrimSpace(doc.Find("h1#school").First().Text())

	var entries []Entry
	doc.Find("table#members tbody tr").Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		if cells.Length() < 2 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		if name == "" || strings.EqualFold(name, "Name") {
			return
		}
		entry := Entry{
			Name:   internal.NormalizeName(name),
			Grade:  strings.TrimSpace(cells.Eq(1).Text()),
			School: defaultSchool,
		}
		if cells.Length() > 2 {
			if school := strings.TrimSpace(cells.Eq(2).Text()); school != "" {
				entry.School = school
			}
		}
		entries = append(entries, entry)
	})

	return entries
}

// fetchDoc gets the HTML document at the given URL using the configured
// User-Agent and the shared caching client.
func fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
