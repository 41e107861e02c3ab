package dashboard

import (
	"fmt"

	"gps-monitor/internal/models"
)

// Locale holds every user-facing string the dashboard renders.
type Locale struct {
	Code        string
	JustNow     string
	MinutesAgo  string // format verb receives the minute count
	HoursAgo    string // format verb receives the hour count
	ShortMonths [12]string
	LongMonths  [12]string

	StatusLabels map[models.UnitStatus]string
	AllStatuses  string
	NoDriver     string
	NoUnitsFound string
	NoUnitsHint  string
	MoreAlerts   string // format verb receives the remaining count

	Labels Labels
}

// Labels are the fixed captions of the dashboard page.
type Labels struct {
	Title         string
	Refresh       string
	Export        string
	Total         string
	Alerts        string
	Search        string
	Filter        string
	Unit          string
	VehicleType   string
	Status        string
	Driver        string
	Location      string
	LastGPS       string
	Maintenance   string
	DownCode      string
	RepairType    string
	OffSince      string
	RepairStart   string
	Technician    string
	Workshop      string
	MarkAsRead    string
	ContactDriver string
}

var englishLocale = Locale{
	Code:       "en",
	JustNow:    "just now",
	MinutesAgo: "%d minutes ago",
	HoursAgo:   "%d hours ago",
	ShortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	LongMonths: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	StatusLabels: map[models.UnitStatus]string{
		models.StatusActive:      "Active",
		models.StatusOffline:     "GPS Off",
		models.StatusMaintenance: "Maintenance",
		models.StatusInactive:    "Inactive",
	},
	AllStatuses:  "All statuses",
	NoDriver:     "No driver",
	NoUnitsFound: "No units found",
	NoUnitsHint:  "Try changing the filter or search keyword",
	MoreAlerts:   "+%d more alerts",
	Labels: Labels{
		Title:         "GPS Monitor",
		Refresh:       "Refresh",
		Export:        "Export",
		Total:         "Total",
		Alerts:        "Alerts",
		Search:        "Search unit code, driver or location",
		Filter:        "Filter",
		Unit:          "Unit",
		VehicleType:   "Type",
		Status:        "Status",
		Driver:        "Driver",
		Location:      "Location",
		LastGPS:       "Last GPS",
		Maintenance:   "Maintenance",
		DownCode:      "Down code",
		RepairType:    "Repair",
		OffSince:      "Off since",
		RepairStart:   "Repair start",
		Technician:    "Technician",
		Workshop:      "Workshop",
		MarkAsRead:    "Mark as read",
		ContactDriver: "Contact driver",
	},
}

var indonesianLocale = Locale{
	Code:       "id",
	JustNow:    "Baru saja",
	MinutesAgo: "%d menit lalu",
	HoursAgo:   "%d jam lalu",
	ShortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agt", "Sep", "Okt", "Nov", "Des",
	},
	LongMonths: [12]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	},
	StatusLabels: map[models.UnitStatus]string{
		models.StatusActive:      "Aktif",
		models.StatusOffline:     "GPS Off",
		models.StatusMaintenance: "Perbaikan",
		models.StatusInactive:    "Tidak Aktif",
	},
	AllStatuses:  "Semua Status",
	NoDriver:     "Tidak ada driver",
	NoUnitsFound: "Tidak ada unit ditemukan",
	NoUnitsHint:  "Coba ubah filter atau kata kunci pencarian",
	MoreAlerts:   "+%d alert lainnya",
	Labels: Labels{
		Title:         "Monitoring GPS",
		Refresh:       "Muat ulang",
		Export:        "Ekspor",
		Total:         "Total Unit",
		Alerts:        "Peringatan",
		Search:        "Cari kode unit, driver atau lokasi",
		Filter:        "Saring",
		Unit:          "Unit",
		VehicleType:   "Jenis",
		Status:        "Status",
		Driver:        "Driver",
		Location:      "Lokasi",
		LastGPS:       "GPS Terakhir",
		Maintenance:   "Perbaikan",
		DownCode:      "Kode kerusakan",
		RepairType:    "Jenis perbaikan",
		OffSince:      "Tidak aktif sejak",
		RepairStart:   "Mulai perbaikan",
		Technician:    "Teknisi",
		Workshop:      "Bengkel",
		MarkAsRead:    "Tandai dibaca",
		ContactDriver: "Hubungi driver",
	},
}

// LookupLocale returns the locale registered under code ("en" or "id").
func LookupLocale(code string) (Locale, error) {
	switch code {
	case "", "en":
		return englishLocale, nil
	case "id":
		return indonesianLocale, nil
	default:
		return Locale{}, fmt.Errorf("unsupported locale %q", code)
	}
}

// EnglishLocale returns the default locale.
func EnglishLocale() Locale {
	return englishLocale
}

// StatusLabel returns the display label for a status, falling back to the raw value.
func (l Locale) StatusLabel(s models.UnitStatus) string {
	if label, ok := l.StatusLabels[s]; ok {
		return label
	}
	return string(s)
}
