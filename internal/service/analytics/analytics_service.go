package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/Domenick1991/travelbook/internal/repository"
)

// StatsFilter narrows booking statistics and exports. Start/End are inclusive;
// CompanyID restricts to bookings whose ticket belongs to that company.
type StatsFilter struct {
	Start     *time.Time
	End       *time.Time
	CompanyID *int64
}

type DayStat struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type RouteStat struct {
	Route    string  `json:"route"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type BookingStats struct {
	TotalBookings int                `json:"total_bookings"`
	TotalRevenue  float64            `json:"total_revenue"`
	BookingsByDay map[string]DayStat `json:"bookings_by_day"`
	PopularRoutes []RouteStat        `json:"popular_routes"`
}

type CompanyTicketStats struct {
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"total_revenue"`
	AveragePrice float64 `json:"average_price"`
}

type TicketStats struct {
	TotalTickets     int                          `json:"total_tickets"`
	AvailableTickets int                          `json:"available_tickets"`
	SoldOutTickets   int                          `json:"sold_out_tickets"`
	AveragePrice     float64                      `json:"average_price"`
	TicketsByCompany map[int64]CompanyTicketStats `json:"tickets_by_company"`
}

type UserStats struct {
	TotalUsers             int     `json:"total_users"`
	Travelers              int     `json:"travelers"`
	Admins                 int     `json:"admins"`
	Companies              int     `json:"companies"`
	NewUsersLast30Days     int     `json:"new_users_last_30_days"`
	AverageBookingsPerUser float64 `json:"average_bookings_per_user"`
}

type UseCase interface {
	BookingStats(ctx context.Context, filter StatsFilter) (*BookingStats, error)
	TicketStats(ctx context.Context, companyID *int64) (*TicketStats, error)
	UserStats(ctx context.Context) (*UserStats, error)
	ExportBookings(ctx context.Context, filter StatsFilter) (string, error)
	ExportTickets(ctx context.Context, companyID *int64) (string, error)
	ExportUsers(ctx context.Context) (string, error)
}

// ArtifactWriter publishes a finished tabular snapshot and returns its path.
type ArtifactWriter interface {
	Write(kind string, headers []string, rows [][]string) (string, error)
}

type Service struct {
	bookings  repository.BookingRepository
	tickets   repository.TicketRepository
	users     repository.UserRepository
	companies repository.CompanyRepository
	writer    ArtifactWriter
}

func NewService(
	bookings repository.BookingRepository,
	tickets repository.TicketRepository,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	writer ArtifactWriter,
) *Service {
	return &Service{bookings: bookings, tickets: tickets, users: users, companies: companies, writer: writer}
}

const topRoutes = 10

// BookingStats folds the non-cancelled bookings matched by the filter into
// totals, per-day buckets and the top routes. Route ties keep their first
// encounter order.
func (s *Service) BookingStats(ctx context.Context, filter StatsFilter) (*BookingStats, error) {
	bookings, ticketsByID, err := s.filteredBookings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}

	stats := &BookingStats{
		TotalBookings: len(bookings),
		BookingsByDay: make(map[string]DayStat),
		PopularRoutes: []RouteStat{},
	}

	routeStats := make(map[string]*RouteStat)
	routeOrder := make([]string, 0)

	for _, b := range bookings {
		ticket, ok := ticketsByID[b.TicketID]
		if !ok {
			return nil, fmt.Errorf("booking stats: booking %d references %w", b.ID, domain.ErrTicketNotFound)
		}
		revenue := ticket.Price * float64(b.NumberOfSeats)
		stats.TotalRevenue += revenue

		day := b.BookingDate.Format("2006-01-02")
		dayStat := stats.BookingsByDay[day]
		dayStat.Count++
		dayStat.Revenue += revenue
		stats.BookingsByDay[day] = dayStat

		route := ticket.Route()
		rs, ok := routeStats[route]
		if !ok {
			rs = &RouteStat{Route: route}
			routeStats[route] = rs
			routeOrder = append(routeOrder, route)
		}
		rs.Bookings++
		rs.Revenue += revenue
	}

	ordered := make([]RouteStat, 0, len(routeOrder))
	for _, route := range routeOrder {
		ordered = append(ordered, *routeStats[route])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Bookings > ordered[j].Bookings
	})
	if len(ordered) > topRoutes {
		ordered = ordered[:topRoutes]
	}
	stats.PopularRoutes = ordered

	return stats, nil
}

func (s *Service) TicketStats(ctx context.Context, companyID *int64) (*TicketStats, error) {
	var tickets []domain.Ticket
	var err error
	if companyID != nil {
		tickets, err = s.tickets.ListByCompany(ctx, *companyID)
	} else {
		tickets, err = s.tickets.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("ticket stats: %w", err)
	}

	stats := &TicketStats{
		TotalTickets:     len(tickets),
		TicketsByCompany: make(map[int64]CompanyTicketStats),
	}

	var priceSum float64
	for _, t := range tickets {
		if t.SoldOut() {
			stats.SoldOutTickets++
		} else {
			stats.AvailableTickets++
		}
		priceSum += t.Price

		companyStats := stats.TicketsByCompany[t.CompanyID]
		companyStats.Count++
		companyStats.TotalRevenue += t.Price
		stats.TicketsByCompany[t.CompanyID] = companyStats
	}
	if len(tickets) > 0 {
		stats.AveragePrice = priceSum / float64(len(tickets))
	}
	for id, companyStats := range stats.TicketsByCompany {
		companyStats.AveragePrice = companyStats.TotalRevenue / float64(companyStats.Count)
		stats.TicketsByCompany[id] = companyStats
	}

	return stats, nil
}

func (s *Service) UserStats(ctx context.Context) (*UserStats, error) {
	roleCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	stats := &UserStats{
		Travelers: roleCounts[domain.RoleTraveler],
		Admins:    roleCounts[domain.RoleAdmin],
		Companies: roleCounts[domain.RoleCompany],
	}
	stats.TotalUsers = stats.Travelers + stats.Admins + stats.Companies

	newUsers, err := s.users.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	stats.NewUsersLast30Days = newUsers

	avg, err := s.bookings.AverageBookingsPerUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	stats.AverageBookingsPerUser = math.Round(avg*100) / 100

	return stats, nil
}

// filteredBookings applies the shared stats/export filter set: cancelled
// bookings are always excluded, a company filter is resolved through its
// ticket ids first. The ticket map for the result set is returned alongside.
func (s *Service) filteredBookings(ctx context.Context, filter StatsFilter) ([]domain.Booking, map[int64]domain.Ticket, error) {
	repoFilter := repository.BookingFilter{
		Start:            filter.Start,
		End:              filter.End,
		ExcludeCancelled: true,
	}
	if filter.CompanyID != nil {
		ticketIDs, err := s.tickets.IDsByCompany(ctx, *filter.CompanyID)
		if err != nil {
			return nil, nil, err
		}
		if len(ticketIDs) == 0 {
			return []domain.Booking{}, map[int64]domain.Ticket{}, nil
		}
		repoFilter.TicketIDs = ticketIDs
	}

	bookings, err := s.bookings.List(ctx, repoFilter)
	if err != nil {
		return nil, nil, err
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	ticketsByID := make(map[int64]domain.Ticket, len(tickets))
	for _, t := range tickets {
		ticketsByID[t.ID] = t
	}

	return bookings, ticketsByID, nil
}

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportBookings writes one row per booking in the same filtered set
// BookingStats aggregates over. Every referenced ticket, user and company
// must resolve or the whole export fails before anything is written.
func (s *Service) ExportBookings(ctx context.Context, filter StatsFilter) (string, error) {
	bookings, ticketsByID, err := s.filteredBookings(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("export bookings: %w", err)
	}

	usersByID, err := s.userIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("export bookings: %w", err)
	}
	companiesByID, err := s.companyIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("export bookings: %w", err)
	}

	headers := []string{"booking_id", "reference", "booking_date", "customer_name", "customer_email", "from", "to", "departure_time", "arrival_time", "seats", "price", "total_amount", "travel_company", "status"}
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		ticket, ok := ticketsByID[b.TicketID]
		if !ok {
			return "", fmt.Errorf("export bookings: booking %d references %w", b.ID, domain.ErrTicketNotFound)
		}
		user, ok := usersByID[b.UserID]
		if !ok {
			return "", fmt.Errorf("export bookings: booking %d references %w", b.ID, domain.ErrUserNotFound)
		}
		company, ok := companiesByID[ticket.CompanyID]
		if !ok {
			return "", fmt.Errorf("export bookings: ticket %d references %w", ticket.ID, domain.ErrCompanyNotFound)
		}

		status := "Confirmed"
		if b.IsCancelled {
			status = "Cancelled"
		}
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.Reference,
			b.BookingDate.Format(exportTimeLayout),
			user.Name,
			user.Email,
			ticket.From,
			ticket.To,
			ticket.DepartureTime.Format(exportTimeLayout),
			ticket.ArrivalTime.Format(exportTimeLayout),
			strconv.Itoa(b.NumberOfSeats),
			formatPrice(ticket.Price),
			formatPrice(ticket.Price * float64(b.NumberOfSeats)),
			company.Name,
			status,
		})
	}

	path, err := s.writer.Write("bookings", headers, rows)
	if err != nil {
		return "", fmt.Errorf("export bookings: %w", err)
	}
	return path, nil
}

func (s *Service) ExportTickets(ctx context.Context, companyID *int64) (string, error) {
	var tickets []domain.Ticket
	var err error
	if companyID != nil {
		tickets, err = s.tickets.ListByCompany(ctx, *companyID)
	} else {
		tickets, err = s.tickets.List(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("export tickets: %w", err)
	}

	companiesByID, err := s.companyIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("export tickets: %w", err)
	}

	headers := []string{"ticket_id", "from", "to", "departure_time", "arrival_time", "price", "available_seats", "travel_company", "status"}
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		company, ok := companiesByID[t.CompanyID]
		if !ok {
			return "", fmt.Errorf("export tickets: ticket %d references %w", t.ID, domain.ErrCompanyNotFound)
		}

		status := "Available"
		if t.SoldOut() {
			status = "Sold Out"
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.From,
			t.To,
			t.DepartureTime.Format(exportTimeLayout),
			t.ArrivalTime.Format(exportTimeLayout),
			formatPrice(t.Price),
			strconv.Itoa(t.AvailableSeats),
			company.Name,
			status,
		})
	}

	path, err := s.writer.Write("tickets", headers, rows)
	if err != nil {
		return "", fmt.Errorf("export tickets: %w", err)
	}
	return path, nil
}

func (s *Service) ExportUsers(ctx context.Context) (string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return "", fmt.Errorf("export users: %w", err)
	}
	bookingCounts, err := s.bookings.CountsByUser(ctx)
	if err != nil {
		return "", fmt.Errorf("export users: %w", err)
	}

	headers := []string{"user_id", "name", "email", "role", "total_bookings"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			string(u.Role),
			strconv.Itoa(bookingCounts[u.ID]),
		})
	}

	path, err := s.writer.Write("users", headers, rows)
	if err != nil {
		return "", fmt.Errorf("export users: %w", err)
	}
	return path, nil
}

func (s *Service) userIndex(ctx context.Context) (map[int64]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func (s *Service) companyIndex(ctx context.Context) (map[int64]domain.TravelCompany, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.TravelCompany, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}
	return byID, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var _ UseCase = (*Service)(nil)
