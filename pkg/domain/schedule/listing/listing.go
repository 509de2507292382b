// Package listing narrows, orders and pages lists of schedules.
//
// It is the pipeline behind every schedule list:
//
//	fetch -> Filter -> Sort -> Paginate
//
// Run does all but fetching.
package listing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultPageSize = 10
)

// PageSizes are the page sizes offered to users.
func PageSizes() []int {
	return []int{5, 10, 20, 50, 100}
}

// Category is a bucket of schedules.
//
// It is one of date-range buckets (TODAY, THIS_WEEK, THIS_MONTH), UPCOMING,
// ALL, or a ScheduleStatus for status equality.
type Category string

const (
	All       Category = "ALL"
	Today     Category = "TODAY"
	ThisWeek  Category = "THIS_WEEK"
	ThisMonth Category = "THIS_MONTH"

	// schedules booked or confirmed, today or later.
	Upcoming Category = "UPCOMING"
)

func (c Category) String() string {
	return string(c)
}

// ByStatus makes a category of schedules in the status.
func ByStatus(s domain.ScheduleStatus) Category {
	return Category(s)
}

// Categories lists all categories, in the order shown to users.
func Categories() []Category {
	cs := []Category{All, Today, ThisWeek, ThisMonth, Upcoming}
	for _, s := range domain.ScheduleStatuses() {
		cs = append(cs, ByStatus(s))
	}
	return cs
}

// AsCategory parses category name, case-insensitively. Empty string is ALL.
func AsCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c == "" {
		return All, nil
	}
	if slices.Contains(Categories(), c) {
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", domerr.ErrInvalidValue, s)
}

type SortOption string

const (
	DateAsc        SortOption = "DATE_ASC"
	DateDesc       SortOption = "DATE_DESC"
	TitleAsc       SortOption = "TITLE_ASC"
	TitleDesc      SortOption = "TITLE_DESC"
	StatusAsc      SortOption = "STATUS_ASC"
	StatusDesc     SortOption = "STATUS_DESC"
	ConsultantAsc  SortOption = "CONSULTANT_ASC"
	ConsultantDesc SortOption = "CONSULTANT_DESC"

	DefaultSort = DateDesc
)

func (s SortOption) String() string {
	return string(s)
}

func SortOptions() []SortOption {
	return []SortOption{
		DateAsc, DateDesc, TitleAsc, TitleDesc,
		StatusAsc, StatusDesc, ConsultantAsc, ConsultantDesc,
	}
}

// AsSortOption parses sort option name, case-insensitively. Empty string is DefaultSort.
func AsSortOption(s string) (SortOption, error) {
	o := SortOption(strings.ToUpper(strings.TrimSpace(s)))
	if o == "" {
		return DefaultSort, nil
	}
	if slices.Contains(SortOptions(), o) {
		return o, nil
	}
	return "", fmt.Errorf("%w: unknown sort option %q", domerr.ErrInvalidValue, s)
}

// Query is the state of a schedule list.
type Query struct {
	Search   string
	Category Category
	Sort     SortOption
	Page     int
	PageSize int
}

// Page is a page of schedules.
type Page struct {
	Items []domain.Schedule

	// 1-based page number.
	Page     int
	PageSize int

	// count of schedules after filtering.
	TotalCount int
	TotalPages int

	// count of schedules before filtering.
	Unfiltered int
}

// HasPrev tells whether there is a page before.
func (p Page) HasPrev() bool {
	return 1 < p.Page
}

// HasNext tells whether there is a page after.
func (p Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// Filter keeps schedules matching both of search and category.
//
// search is matched case-insensitively against title, consultant name,
// client name and description. Blank search matches everything.
//
// Date-range categories are evaluated with the date of `now` (in now's location).
// Weeks start on Sunday.
//
// The result is a new slice. schedules is not modified.
func Filter(now time.Time, schedules []domain.Schedule, search string, category Category) []domain.Schedule {
	match := categoryMatcher(domain.DateOf(now), category)
	needle := strings.ToLower(strings.TrimSpace(search))

	result := make([]domain.Schedule, 0, len(schedules))
	for _, s := range schedules {
		if needle != "" && !containsAny(needle, s.Title, s.ConsultantName, s.ClientName, s.Description) {
			continue
		}
		if !match(&s) {
			continue
		}
		result = append(result, s)
	}
	return result
}

func containsAny(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func categoryMatcher(today domain.Date, category Category) func(*domain.Schedule) bool {
	switch category {
	case "", All:
		return func(*domain.Schedule) bool { return true }
	case Today:
		return func(s *domain.Schedule) bool { return s.Date == today }
	case ThisWeek:
		since, until := today.WeekStart(), today.WeekEnd()
		return func(s *domain.Schedule) bool { return s.Date.Between(since, until) }
	case ThisMonth:
		since, until := today.MonthStart(), today.MonthEnd()
		return func(s *domain.Schedule) bool { return s.Date.Between(since, until) }
	case Upcoming:
		return func(s *domain.Schedule) bool {
			return !s.Date.Before(today) && s.Status.IsOpen()
		}
	}
	status := domain.ScheduleStatus(category)
	return func(s *domain.Schedule) bool { return s.Status == status }
}

// Sort orders schedules with the option.
//
// Date sorts order by date, then by start time.
// Other sorts compare texts in Korean collation.
// Equal items keep their order. Unknown option falls back to DefaultSort.
//
// The result is a new slice. schedules is not modified.
func Sort(schedules []domain.Schedule, option SortOption) []domain.Schedule {
	sorted := slices.Clone(schedules)
	if sorted == nil {
		sorted = []domain.Schedule{}
	}

	col := collate.New(language.Korean)
	byText := func(key func(*domain.Schedule) string) func(a, b domain.Schedule) int {
		return func(a, b domain.Schedule) int {
			return col.CompareString(key(&a), key(&b))
		}
	}
	byDate := func(a, b domain.Schedule) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return int(a.Start) - int(b.Start)
	}
	desc := func(f func(a, b domain.Schedule) int) func(a, b domain.Schedule) int {
		return func(a, b domain.Schedule) int { return f(b, a) }
	}

	title := byText(func(s *domain.Schedule) string { return s.Title })
	status := byText(func(s *domain.Schedule) string { return string(s.Status) })
	consultant := byText(func(s *domain.Schedule) string { return s.ConsultantName })

	var cmp func(a, b domain.Schedule) int
	switch option {
	case DateAsc:
		cmp = byDate
	case TitleAsc:
		cmp = title
	case TitleDesc:
		cmp = desc(title)
	case StatusAsc:
		cmp = status
	case StatusDesc:
		cmp = desc(status)
	case ConsultantAsc:
		cmp = consultant
	case ConsultantDesc:
		cmp = desc(consultant)
	default:
		cmp = desc(byDate)
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}

// Paginate cuts out a page.
//
// page is 1-based, and page < 1 is treated as 1.
// size <= 0 is treated as DefaultPageSize.
// Pages after the last one are empty.
func Paginate(schedules []domain.Schedule, page int, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(schedules)
	pages := total / size
	if total%size != 0 {
		pages += 1
	}
	result := Page{
		Items:      []domain.Schedule{},
		Page:       page,
		PageSize:   size,
		TotalCount: total,
		Unfiltered: total,
		TotalPages: pages,
	}
	if pages < page {
		return result
	}

	// page <= pages, so begin < total and does not overflow.
	begin := (page - 1) * size
	end := begin + min(size, total-begin)
	result.Items = slices.Clone(schedules[begin:end])
	return result
}

// Run filters, sorts and paginates schedules with the query.
func Run(now time.Time, schedules []domain.Schedule, q Query) Page {
	filtered := Filter(now, schedules, q.Search, q.Category)
	sorted := Sort(filtered, q.Sort)
	page := Paginate(sorted, q.Page, q.PageSize)
	page.Unfiltered = len(schedules)
	return page
}
