package common

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth        = 1120
	imageHeight       = 820
	headerHeight      = 70
	leftLabelsWidth   = 56
	legendWidth       = 112
	dayPaddingX       = 5
	minBlockHeight    = 14.0
	blockBorderRadius = 5.0
	shadowOffset      = 2.0
	totalDaysInWeek   = 7
	hourPadding       = 1
	lineHeight        = 14.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{60, 65, 70, 255}
	hourLabelColor   = color.RGBA{110, 115, 120, 255}
	hourLineColor    = color.NRGBA{170, 170, 170, 255}
	workHoursColor   = color.NRGBA{255, 255, 255, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 60}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	blockShadowColor = color.RGBA{0, 0, 0, 24}
	blockTextColor   = color.RGBA{20, 24, 28, 255}

	statusColors = map[model.AppointmentStatus]color.RGBA{
		model.AppointmentStatusPending:   {255, 214, 102, 235},
		model.AppointmentStatusConfirmed: {133, 193, 85, 235},
		model.AppointmentStatusCompleted: {120, 170, 230, 235},
		model.AppointmentStatusCancelled: {190, 190, 190, 160},
		model.AppointmentStatusNoShow:    {255, 160, 170, 235},
	}
	defaultBlockColor = color.RGBA{210, 210, 210, 220}
)

// WeekImageOptions что и как рисовать
type WeekImageOptions struct {
	Hours scheduling.SlotOptions
	Now   time.Time // для подсветки сегодняшнего дня и линии текущего времени
}

type weekBounds struct {
	start time.Time
	end   time.Time // первый день следующей недели
}

type hourRange struct {
	start int
	end   int
	total int
}

// GenerateWeekImage рисует PNG календарь недели (Пн-Вс), в которую попадает day.
// Встроенный растровый шрифт умеет только ASCII, поэтому подписи транслитерируются.
func GenerateWeekImage(day time.Time, appointments []model.Appointment, opts WeekImageOptions) ([]byte, error) {
	if opts.Hours.GranularityMinutes == 0 {
		opts.Hours = scheduling.DefaultSlotOptions()
	}
	if err := opts.Hours.Validate(); err != nil {
		return nil, err
	}

	week := weekOf(day)
	byDay := groupByDay(week, appointments)
	hours := calculateHourRange(byDay, opts.Hours)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := float64(imageWidth-leftLabelsWidth-legendWidth) / totalDaysInWeek
	cellHeight := float64(imageHeight-headerHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)
	for i := 0; i < totalDaysInWeek; i++ {
		date := week.start.AddDate(0, 0, i)
		x := float64(leftLabelsWidth) + float64(i)*dayWidth
		isToday := !opts.Now.IsZero() && sameDay(date, opts.Now.In(day.Location()))

		drawDayBackground(dc, x, dayWidth, i, isToday, hours, opts.Hours, cellHeight)
		drawDayHeader(dc, date, x, dayWidth)
		drawHourLines(dc, x, dayWidth, hours, cellHeight)
		for _, a := range byDay[i] {
			drawAppointment(dc, a, date, x, dayWidth, hours, cellHeight)
		}
		if isToday {
			drawCurrentTimeLine(dc, opts.Now.In(day.Location()), x, dayWidth, hours, cellHeight)
		}
	}
	drawLegend(dc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// weekOf границы недели (Пн-Вс) в часовом поясе даты
func weekOf(date time.Time) weekBounds {
	normalized := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	return weekBounds{start: start, end: start.AddDate(0, 0, totalDaysInWeek)}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// groupByDay раскладывает записи недели по индексу дня (0 = понедельник)
func groupByDay(week weekBounds, appointments []model.Appointment) map[int][]model.Appointment {
	byDay := make(map[int][]model.Appointment)
	for i := 0; i < totalDaysInWeek; i++ {
		date := week.start.AddDate(0, 0, i)
		if list := scheduling.ListForDay(date, appointments); len(list) > 0 {
			byDay[i] = list
		}
	}
	return byDay
}

// calculateHourRange рабочие часы с отступом, расширенные под записи вне рабочего времени
func calculateHourRange(byDay map[int][]model.Appointment, work scheduling.SlotOptions) hourRange {
	minHour := work.WorkStartHour
	maxHour := work.WorkEndHour

	for _, list := range byDay {
		for _, a := range list {
			start, end := a.StartAt, a.EndAt()
			endH := end.Hour()
			switch {
			case !sameDay(start, end):
				endH = 24
			case end.Minute() > 0:
				endH++
			}
			minHour = min(minHour, start.Hour())
			maxHour = max(maxHour, endH)
		}
	}

	startHour := max(minHour-hourPadding, 0)
	endHour := min(maxHour+hourPadding, 24)
	return hourRange{start: startHour, end: endHour, total: endHour - startHour}
}

func drawHeader(dc *gg.Context, week weekBounds) {
	last := week.end.AddDate(0, 0, -1)
	title := fmt.Sprintf("Week %s - %s", week.start.Format("02.01"), last.Format("02.01.2006"))
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, 10, 18, 0, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for h := 0; h <= hours.total; h++ {
		y := float64(headerHeight) + float64(h)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+h), float64(leftLabelsWidth)-6, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, dayWidth float64, dayIndex int, isToday bool, hours hourRange, work scheduling.SlotOptions, cellHeight float64) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, headerHeight, dayWidth, float64(imageHeight-headerHeight))
	dc.Fill()

	// рабочие часы светлее
	top := float64(headerHeight) + float64(work.WorkStartHour-hours.start)*cellHeight
	bottom := float64(headerHeight) + float64(work.WorkEndHour-hours.start)*cellHeight
	dc.SetColor(workHoursColor)
	dc.DrawRectangle(x+1, top, dayWidth-2, bottom-top)
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, dayWidth float64) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("Mon"), x+dayWidth/2, headerHeight-30, 0.5, 0.5)
	dc.DrawStringAnchored(date.Format("02.01"), x+dayWidth/2, headerHeight-14, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x, dayWidth float64, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.4)
	dc.SetColor(hourLineColor)
	for h := 0; h <= hours.total; h++ {
		y := float64(headerHeight) + float64(h)*cellHeight
		dc.DrawLine(x, y, x+dayWidth, y)
		dc.Stroke()
	}
}

func drawAppointment(dc *gg.Context, a model.Appointment, date time.Time, x, dayWidth float64, hours hourRange, cellHeight float64) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	startH := a.StartAt.Sub(dayStart).Hours()
	endH := min(a.EndAt().Sub(dayStart).Hours(), 24)

	y := float64(headerHeight) + (startH-float64(hours.start))*cellHeight
	height := max((endH-startH)*cellHeight, minBlockHeight)
	width := dayWidth - dayPaddingX*2

	fill, ok := statusColors[a.Status]
	if !ok {
		fill = defaultBlockColor
	}

	dc.SetColor(blockShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, y+1+shadowOffset, width, height-2, blockBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, y+1, width, height-2, blockBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.75))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, y+1, width, height-2, blockBorderRadius)
	dc.Stroke()

	maxChars := int(width-8) / basicfont.Face7x13.Advance
	lines := []string{a.StartAt.Format("15:04")}
	if a.Customer != nil && a.Customer.Name != "" {
		lines = append(lines, asciiLabel(a.Customer.Name))
	}
	lines = append(lines, asciiLabel(string(a.Service.Kind)))

	dc.SetColor(blockTextColor)
	for i, line := range lines {
		lineY := y + 4 + lineHeight*float64(i+1) - 3
		if lineY > y+height-2 {
			break
		}
		dc.DrawString(truncate(line, maxChars), x+dayPaddingX+4, lineY)
	}
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, x, dayWidth float64, hours hourRange, cellHeight float64) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}
	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(x, y, x+dayWidth, y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context) {
	items := []struct {
		label  string
		status model.AppointmentStatus
	}{
		{"pending", model.AppointmentStatusPending},
		{"confirmed", model.AppointmentStatusConfirmed},
		{"completed", model.AppointmentStatusCompleted},
		{"no show", model.AppointmentStatusNoShow},
		{"cancelled", model.AppointmentStatusCancelled},
	}

	x := float64(imageWidth-legendWidth) + 10
	y := float64(imageHeight) - 130
	for _, item := range items {
		dc.SetColor(statusColors[item.status])
		dc.DrawRoundedRectangle(x, y, 18, 12, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.label, x+26, y+6, 0, 0.5)
		y += 24
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

var asciiFold = strings.NewReplacer(
	"ş", "s", "Ş", "S", "ç", "c", "Ç", "C", "ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I", "ö", "o", "Ö", "O", "ü", "u", "Ü", "U",
)

// asciiLabel приводит турецкие буквы к латинице, остальное не-ASCII заменяет на '?'
func asciiLabel(s string) string {
	s = asciiFold.Replace(s)
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func truncate(s string, maxChars int) string {
	if maxChars <= 3 || len(s) <= maxChars {
		return s
	}
	return s[:maxChars-3] + "..."
}
