package internship

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const PageSize = 10

// MaxPage keeps the row offset of any page within int32.
const MaxPage = math.MaxInt32 / PageSize

// SearchFilter holds the public search parameters. Empty fields do not filter.
type SearchFilter struct {
	Keyword          string
	Stipend          string
	Location         string
	Duration         string
	WorkType         string
	Skills           []string
	PostedWithinDays int
	Page             int
}

type SearchResult struct {
	Internships []Internship `json:"internships"`
	Page        int          `json:"page"`
	Pages       int          `json:"pages"`
}

var stipendNumber = regexp.MustCompile(`\d[\d,]*`)

// StipendFloor extracts the first number in a stipend filter ("5,000/month" -> 5000).
func StipendFloor(filter string) (int64, bool) {
	match := stipendNumber.FindString(filter)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(strings.ReplaceAll(match, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// PostedSince returns the lower bound on creation time for the recency filter.
func (f SearchFilter) PostedSince(now time.Time) (time.Time, bool) {
	if f.PostedWithinDays <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -f.PostedWithinDays), true
}

func (f SearchFilter) NormalizedPage() int {
	if f.Page < 1 {
		return 1
	}
	if f.Page > MaxPage {
		return MaxPage
	}
	return f.Page
}

func TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + PageSize - 1) / PageSize
}
