package listing_test

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	"github.com/mindgarden/consultation/pkg/domain/schedule/listing"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

var kst = time.FixedZone("KST", 9*60*60)

// 2024-05-15 is Wednesday.
var now = time.Date(2024, 5, 15, 13, 0, 0, 0, kst)

func schedule(t *testing.T, id int64, date string, start string, status domain.ScheduleStatus) domain.Schedule {
	t.Helper()
	st := try.To(domain.ParseClock(start)).OrFatal(t)
	end, _ := st.AddMinutes(50)
	return domain.Schedule{
		Id:             domain.ScheduleId(id),
		ConsultantId:   1,
		ConsultantName: "consultant",
		Date:           try.To(domain.ParseDate(date)).OrFatal(t),
		Start:          st,
		End:            end,
		Status:         status,
		Title:          fmt.Sprintf("session %d", id),
	}
}

func ids(ss []domain.Schedule) []domain.ScheduleId {
	ret := make([]domain.ScheduleId, 0, len(ss))
	for _, s := range ss {
		ret = append(ret, s.Id)
	}
	return ret
}

func TestFilter_Category(t *testing.T) {
	fixture := func(t *testing.T) []domain.Schedule {
		return []domain.Schedule{
			schedule(t, 1, "2024-05-15", "10:00", domain.Completed),  // today, passed
			schedule(t, 2, "2024-05-15", "15:00", domain.Booked),     // today, later
			schedule(t, 3, "2024-05-12", "10:00", domain.Completed),  // sunday of this week
			schedule(t, 4, "2024-05-18", "10:00", domain.Confirmed),  // saturday of this week
			schedule(t, 5, "2024-05-11", "10:00", domain.Cancelled),  // saturday of last week
			schedule(t, 6, "2024-05-19", "10:00", domain.Booked),     // sunday of next week
			schedule(t, 7, "2024-05-01", "10:00", domain.Available),  // first day of month
			schedule(t, 8, "2024-05-31", "10:00", domain.Blocked),    // last day of month
			schedule(t, 9, "2024-04-30", "10:00", domain.Completed),  // last month
			schedule(t, 10, "2024-06-01", "10:00", domain.Booked),    // next month
			schedule(t, 11, "2024-05-16", "10:00", domain.Cancelled), // tomorrow, but cancelled
		}
	}

	theory := func(category listing.Category, expected []domain.ScheduleId) func(*testing.T) {
		return func(t *testing.T) {
			actual := ids(listing.Filter(now, fixture(t), "", category))
			if !slices.Equal(actual, expected) {
				t.Errorf("expected %v, got %v", expected, actual)
			}
		}
	}

	t.Run("ALL keeps everything", theory(
		listing.All, []domain.ScheduleId{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	))
	t.Run("empty category keeps everything", theory(
		"", []domain.ScheduleId{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	))
	t.Run("TODAY keeps schedules on the date of now", theory(
		listing.Today, []domain.ScheduleId{1, 2},
	))
	t.Run("THIS_WEEK keeps schedules from sunday to saturday", theory(
		listing.ThisWeek, []domain.ScheduleId{1, 2, 3, 4, 11},
	))
	t.Run("THIS_MONTH keeps schedules from the first to the last day", theory(
		listing.ThisMonth, []domain.ScheduleId{1, 2, 3, 4, 5, 6, 7, 8, 11},
	))
	t.Run("UPCOMING keeps booked or confirmed schedules from today", theory(
		listing.Upcoming, []domain.ScheduleId{2, 4, 6, 10},
	))
	t.Run("status category keeps schedules in the status", theory(
		listing.ByStatus(domain.Cancelled), []domain.ScheduleId{5, 11},
	))
	t.Run("status category with no match gives empty", theory(
		listing.ByStatus("UNKNOWN"), []domain.ScheduleId{},
	))
}

func TestFilter_Search(t *testing.T) {
	clientId := domain.UserId(100)
	fixture := []domain.Schedule{
		{Id: 1, Title: "Initial Consultation", ConsultantName: "김상담", ClientName: "이내담"},
		{Id: 2, Title: "Follow-up", ConsultantName: "박상담", Description: "talk about sleep"},
		{Id: 3, Title: "가족 상담", ConsultantName: "김상담", ClientId: &clientId, ClientName: "최가족"},
		{Id: 4, Title: "", ConsultantName: "", ClientName: "", Description: ""},
	}

	theory := func(search string, expected []domain.ScheduleId) func(*testing.T) {
		return func(t *testing.T) {
			actual := ids(listing.Filter(now, fixture, search, listing.All))
			if !slices.Equal(actual, expected) {
				t.Errorf("search %q: expected %v, got %v", search, expected, actual)
			}
		}
	}

	t.Run("blank search matches everything", theory("   ", []domain.ScheduleId{1, 2, 3, 4}))
	t.Run("it matches title case-insensitively", theory("CONSULT", []domain.ScheduleId{1}))
	t.Run("it matches consultant name", theory("김상담", []domain.ScheduleId{1, 3}))
	t.Run("it matches client name", theory("최가족", []domain.ScheduleId{3}))
	t.Run("it matches description", theory("SLEEP", []domain.ScheduleId{2}))
	t.Run("it matches substring", theory("상담", []domain.ScheduleId{1, 2, 3}))
	t.Run("no match gives empty", theory("nothing", []domain.ScheduleId{}))
}

func TestFilter_SearchAndCategory(t *testing.T) {
	a := schedule(t, 1, "2024-05-15", "10:00", domain.Booked)
	a.Title = "yoga"
	b := schedule(t, 2, "2024-05-20", "10:00", domain.Booked)
	b.Title = "yoga"
	c := schedule(t, 3, "2024-05-15", "11:00", domain.Booked)
	c.Title = "talk"

	actual := ids(listing.Filter(now, []domain.Schedule{a, b, c}, "Yoga", listing.Today))
	if !slices.Equal(actual, []domain.ScheduleId{1}) {
		t.Errorf("both conditions should be applied: %v", actual)
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	input := []domain.Schedule{
		schedule(t, 1, "2024-05-15", "10:00", domain.Booked),
		schedule(t, 2, "2024-05-01", "10:00", domain.Booked),
	}
	before := slices.Clone(input)

	listing.Filter(now, input, "", listing.Today)

	if !slices.EqualFunc(input, before, func(a, b domain.Schedule) bool { return a.Equal(&b) }) {
		t.Errorf("input is modified: %v", input)
	}
}

func TestSort(t *testing.T) {
	fixture := func(t *testing.T) []domain.Schedule {
		s1 := schedule(t, 1, "2024-05-15", "10:00", domain.Completed)
		s1.Title, s1.ConsultantName = "나비", "박상담"
		s2 := schedule(t, 2, "2024-05-14", "16:00", domain.Booked)
		s2.Title, s2.ConsultantName = "가방", "김상담"
		s3 := schedule(t, 3, "2024-05-15", "09:00", domain.Cancelled)
		s3.Title, s3.ConsultantName = "다리", "김상담"
		s4 := schedule(t, 4, "2024-05-16", "09:00", domain.Booked)
		s4.Title, s4.ConsultantName = "가방", ""
		return []domain.Schedule{s1, s2, s3, s4}
	}

	theory := func(option listing.SortOption, expected []domain.ScheduleId) func(*testing.T) {
		return func(t *testing.T) {
			input := fixture(t)
			actual := ids(listing.Sort(input, option))
			if !slices.Equal(actual, expected) {
				t.Errorf("%s: expected %v, got %v", option, expected, actual)
			}
			if !slices.Equal(ids(input), []domain.ScheduleId{1, 2, 3, 4}) {
				t.Errorf("input is modified: %v", ids(input))
			}
		}
	}

	t.Run("DATE_ASC orders by date then start time", theory(
		listing.DateAsc, []domain.ScheduleId{2, 3, 1, 4},
	))
	t.Run("DATE_DESC is the reverse of DATE_ASC", theory(
		listing.DateDesc, []domain.ScheduleId{4, 1, 3, 2},
	))
	t.Run("unknown option falls back to DATE_DESC", theory(
		listing.SortOption("PRICE_ASC"), []domain.ScheduleId{4, 1, 3, 2},
	))
	t.Run("TITLE_ASC is stable for equal titles", theory(
		listing.TitleAsc, []domain.ScheduleId{2, 4, 1, 3},
	))
	t.Run("TITLE_DESC is stable for equal titles", theory(
		listing.TitleDesc, []domain.ScheduleId{3, 1, 2, 4},
	))
	t.Run("STATUS_ASC compares status names", theory(
		listing.StatusAsc, []domain.ScheduleId{2, 4, 3, 1},
	))
	t.Run("STATUS_DESC compares status names", theory(
		listing.StatusDesc, []domain.ScheduleId{1, 3, 2, 4},
	))
	t.Run("CONSULTANT_ASC puts missing names first", theory(
		listing.ConsultantAsc, []domain.ScheduleId{4, 2, 3, 1},
	))
	t.Run("CONSULTANT_DESC puts missing names last", theory(
		listing.ConsultantDesc, []domain.ScheduleId{1, 2, 3, 4},
	))

	t.Run("nil input gives empty", func(t *testing.T) {
		if actual := listing.Sort(nil, listing.DateAsc); actual == nil || len(actual) != 0 {
			t.Errorf("unexpected: %v", actual)
		}
	})
}

func TestPaginate(t *testing.T) {
	fixture := func(t *testing.T, n int) []domain.Schedule {
		ret := []domain.Schedule{}
		for i := 1; i <= n; i++ {
			ret = append(ret, schedule(t, int64(i), "2024-05-15", "10:00", domain.Booked))
		}
		return ret
	}

	type When struct {
		count int
		page  int
		size  int
	}
	type Then struct {
		items      []domain.ScheduleId
		page       int
		size       int
		totalPages int
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			actual := listing.Paginate(fixture(t, when.count), when.page, when.size)

			if got := ids(actual.Items); !slices.Equal(got, then.items) {
				t.Errorf("items: expected %v, got %v", then.items, got)
			}
			if actual.Page != then.page {
				t.Errorf("page: expected %d, got %d", then.page, actual.Page)
			}
			if actual.PageSize != then.size {
				t.Errorf("size: expected %d, got %d", then.size, actual.PageSize)
			}
			if actual.TotalCount != when.count {
				t.Errorf("total count: expected %d, got %d", when.count, actual.TotalCount)
			}
			if actual.TotalPages != then.totalPages {
				t.Errorf("total pages: expected %d, got %d", then.totalPages, actual.TotalPages)
			}
		}
	}

	t.Run("first page", theory(
		When{count: 12, page: 1, size: 5},
		Then{items: []domain.ScheduleId{1, 2, 3, 4, 5}, page: 1, size: 5, totalPages: 3},
	))
	t.Run("last page is partial", theory(
		When{count: 12, page: 3, size: 5},
		Then{items: []domain.ScheduleId{11, 12}, page: 3, size: 5, totalPages: 3},
	))
	t.Run("page after the last is empty", theory(
		When{count: 12, page: 4, size: 5},
		Then{items: []domain.ScheduleId{}, page: 4, size: 5, totalPages: 3},
	))
	t.Run("exact multiple of size", theory(
		When{count: 10, page: 2, size: 5},
		Then{items: []domain.ScheduleId{6, 7, 8, 9, 10}, page: 2, size: 5, totalPages: 2},
	))
	t.Run("no items gives no pages", theory(
		When{count: 0, page: 1, size: 10},
		Then{items: []domain.ScheduleId{}, page: 1, size: 10, totalPages: 0},
	))
	t.Run("non-positive size falls back to default", theory(
		When{count: 12, page: 2, size: 0},
		Then{items: []domain.ScheduleId{11, 12}, page: 2, size: listing.DefaultPageSize, totalPages: 2},
	))
	t.Run("non-positive page is the first page", theory(
		When{count: 3, page: 0, size: 10},
		Then{items: []domain.ScheduleId{1, 2, 3}, page: 1, size: 10, totalPages: 1},
	))
	t.Run("huge page is empty", theory(
		When{count: 3, page: math.MaxInt, size: 10},
		Then{items: []domain.ScheduleId{}, page: math.MaxInt, size: 10, totalPages: 1},
	))
	t.Run("huge size makes one page", theory(
		When{count: 3, page: 1, size: math.MaxInt},
		Then{items: []domain.ScheduleId{1, 2, 3}, page: 1, size: math.MaxInt, totalPages: 1},
	))
	t.Run("huge page and size", theory(
		When{count: 3, page: math.MaxInt, size: math.MaxInt},
		Then{items: []domain.ScheduleId{}, page: math.MaxInt, size: math.MaxInt, totalPages: 1},
	))
}

func TestPage_Navigation(t *testing.T) {
	p := listing.Page{Page: 1, TotalPages: 3}
	if p.HasPrev() || !p.HasNext() {
		t.Errorf("first page: prev=%v next=%v", p.HasPrev(), p.HasNext())
	}
	p = listing.Page{Page: 3, TotalPages: 3}
	if !p.HasPrev() || p.HasNext() {
		t.Errorf("last page: prev=%v next=%v", p.HasPrev(), p.HasNext())
	}
	p = listing.Page{Page: 1, TotalPages: 0}
	if p.HasPrev() || p.HasNext() {
		t.Errorf("empty: prev=%v next=%v", p.HasPrev(), p.HasNext())
	}
}

func TestRun(t *testing.T) {
	input := []domain.Schedule{}
	for i := 1; i <= 25; i++ {
		date := "2024-05-15"
		if i%2 == 0 {
			date = "2024-05-20"
		}
		s := schedule(t, int64(i), date, fmt.Sprintf("%02d:00", i%14+8), domain.Booked)
		input = append(input, s)
	}

	actual := listing.Run(now, input, listing.Query{
		Category: listing.Today,
		Sort:     listing.DateAsc,
		Page:     2,
		PageSize: 5,
	})

	// odd ids are today: 13 schedules.
	if actual.TotalCount != 13 || actual.TotalPages != 3 || actual.Unfiltered != 25 {
		t.Errorf(
			"unexpected totals: %d of %d items, %d pages",
			actual.TotalCount, actual.Unfiltered, actual.TotalPages,
		)
	}
	if len(actual.Items) != 5 {
		t.Fatalf("unexpected page length: %d", len(actual.Items))
	}
	for i := 1; i < len(actual.Items); i++ {
		if actual.Items[i].Start < actual.Items[i-1].Start {
			t.Errorf("items are not sorted: %v", actual.Items)
		}
	}
	for _, s := range actual.Items {
		if s.Date != domain.DateOf(now) {
			t.Errorf("not today: %+v", s)
		}
	}
}

func TestAsCategory(t *testing.T) {
	for _, c := range listing.Categories() {
		if got, err := listing.AsCategory(string(c)); err != nil || got != c {
			t.Errorf("%s: got %s, %v", c, got, err)
		}
	}
	if got, err := listing.AsCategory(""); err != nil || got != listing.All {
		t.Errorf("empty: got %s, %v", got, err)
	}
	if got, err := listing.AsCategory("this_week"); err != nil || got != listing.ThisWeek {
		t.Errorf("lower case: got %s, %v", got, err)
	}
	if _, err := listing.AsCategory("YESTERDAY"); !errors.Is(err, domerr.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestAsSortOption(t *testing.T) {
	if got, err := listing.AsSortOption(""); err != nil || got != listing.DateDesc {
		t.Errorf("empty: got %s, %v", got, err)
	}
	if got, err := listing.AsSortOption("title_asc"); err != nil || got != listing.TitleAsc {
		t.Errorf("lower case: got %s, %v", got, err)
	}
	if _, err := listing.AsSortOption("PRICE_ASC"); !errors.Is(err, domerr.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}
