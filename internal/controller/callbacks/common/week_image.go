package common

import (
	"bytes"
	"image/color"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 6
	minSlotHeight    = 14.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	maxLabelRunes    = 18
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	visitPendingColor   = color.RGBA{255, 214, 153, 240}
	visitAssignedColor  = color.RGBA{133, 193, 85, 230}
	visitCompletedColor = color.RGBA{150, 180, 220, 230}
	visitCanceledColor  = color.RGBA{190, 190, 190, 200}
	visitTextColor      = color.RGBA{20, 24, 28, 230}
	visitShadowColor    = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// WeekImageOptions параметры отрисовки
type WeekImageOptions struct {
	Now   time.Time                           // для подсветки сегодняшнего дня и линии времени
	Label func(a *model.Appointment) string // подпись под временем визита
}

var (
	fontsOnce   sync.Once
	parsedFonts map[FontStyle]*opentype.Font
)

func parseFonts() {
	parsedFonts = make(map[FontStyle]*opentype.Font, 2)
	if f, err := opentype.Parse(goregular.TTF); err == nil {
		parsedFonts[FontStyleDefault] = f
	}
	if f, err := opentype.Parse(gobold.TTF); err == nil {
		parsedFonts[FontStyleBold] = f
	}
}

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsOnce.Do(parseFonts)

	parsed, ok := parsedFonts[style]
	if !ok {
		parsed, ok = parsedFonts[FontStyleDefault]
	}
	if ok {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	// fallback к встроенному шрифту
	dc.SetFontFace(basicfont.Face7x13)
}

// weekCanvas геометрия сетки
type weekCanvas struct {
	dc         *gg.Context
	grid       scheduling.WeekGrid
	dayWidth   float64
	dayHeight  float64
	cellHeight float64
}

// GenerateWeekImage рисует PNG недели по готовой раскладке визитов
func GenerateWeekImage(grid scheduling.WeekGrid, opts WeekImageOptions) ([]byte, error) {
	hours := grid.EndHour - grid.StartHour
	if hours <= 0 {
		hours = 1
	}

	wc := &weekCanvas{
		dc:        gg.NewContext(imageWidth, imageHeight),
		grid:      grid,
		dayWidth:  float64(imageWidth-leftLabelsWidth-legendWidth) / totalDaysInWeek,
		dayHeight: float64(imageHeight - headerHeight),
	}
	wc.cellHeight = wc.dayHeight / float64(hours)

	wc.dc.SetColor(bgColor)
	wc.dc.Clear()

	todayIndex := -1
	if !opts.Now.IsZero() {
		for i, d := range grid.Days() {
			if scheduling.SameDay(d, opts.Now.In(d.Location())) {
				todayIndex = i
			}
		}
	}

	wc.drawHeader()
	wc.drawHourLabels()
	for i, day := range grid.Days() {
		wc.drawDay(i, day, i == todayIndex)
	}
	for _, p := range grid.Placements {
		wc.drawVisit(p, opts.Label)
	}
	if todayIndex >= 0 {
		wc.drawCurrentTimeLine(opts.Now.In(grid.WeekStart.Location()))
	}
	wc.drawLegend()

	var buf bytes.Buffer
	if err := wc.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawHeader рисует заголовок с названием месяца
func (wc *weekCanvas) drawHeader() {
	start := wc.grid.WeekStart
	end := scheduling.AddDays(start, 6)

	title := formatting.GetMonthName(start.Month())
	if start.Month() != end.Month() {
		title += " - " + formatting.GetMonthName(end.Month())
	}

	loadFont(wc.dc, titleFontSize, FontStyleBold)
	wc.dc.SetColor(textColor)
	w, h := wc.dc.MeasureString(title)
	wc.dc.DrawStringAnchored(title, w/2+10, float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func (wc *weekCanvas) drawHourLabels() {
	loadFont(wc.dc, hourLabelFontSize, FontStyleDefault)
	wc.dc.SetColor(hourLabelColor)

	for h := wc.grid.StartHour; h < wc.grid.EndHour; h++ {
		y := float64(headerHeight) + float64(h-wc.grid.StartHour)*wc.cellHeight
		wc.dc.DrawStringAnchored(scheduling.FormatClock(h*60), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDay рисует фон, заголовок и линии часов одного дня
func (wc *weekCanvas) drawDay(index int, date time.Time, isToday bool) {
	dc := wc.dc
	x := float64(leftLabelsWidth) + float64(index)*wc.dayWidth
	y := float64(headerHeight)

	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, wc.dayWidth, wc.dayHeight)
	dc.Fill()

	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+wc.dayWidth/2, y, 0.5, -1)
	dc.DrawStringAnchored(formatting.GetWeekdayShort(date.Weekday()), x+wc.dayWidth/2, y, 0.5, -0.2)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= wc.grid.EndHour-wc.grid.StartHour; i++ {
		hy := y + float64(i)*wc.cellHeight
		dc.DrawLine(x, hy, x+wc.dayWidth, hy)
		dc.Stroke()
	}
}

// drawVisit рисует один визит в его колонке внутри ячейки
func (wc *weekCanvas) drawVisit(p scheduling.Placement, label func(*model.Appointment) string) {
	dc := wc.dc
	inner := wc.dayWidth - dayPaddingX*2

	x := float64(leftLabelsWidth) + float64(p.DayIndex)*wc.dayWidth + dayPaddingX + inner*p.LeftPercent/100
	w := inner * p.WidthPercent / 100

	offset := float64(p.HourSlot-wc.grid.StartHour) + float64(p.StartMinute)/60
	y := float64(headerHeight) + offset*wc.cellHeight
	h := p.DurationHours * wc.cellHeight
	if bottom := float64(imageHeight); y+h > bottom {
		h = bottom - y
	}
	if h < minSlotHeight {
		h = minSlotHeight
	}

	fill := visitColor(p.Appointment.Status)

	dc.SetColor(visitShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, y+2+shadowOffset, w-2, h-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y+2, w-2, h-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y+2, w-2, h-4, slotBorderRadius)
	dc.Stroke()

	loadFont(dc, slotTimeFontSize, FontStyleBold)
	dc.SetColor(visitTextColor)
	txtX := x + 6
	txtY := y + 18
	dc.DrawStringAnchored(p.Appointment.EstDate.Format("15:04"), txtX, txtY, 0, 0)

	if label == nil || h <= 30 {
		return
	}
	text := truncateRunes(label(p.Appointment), max(3, int(float64(maxLabelRunes)*p.WidthPercent/100)))
	if text == "" {
		return
	}
	loadFont(dc, slotTimeFontSize-2, FontStyleDefault)
	dc.DrawStringAnchored(text, txtX, txtY+16, 0, 0)
}

// visitColor цвет визита по статусу
func visitColor(status model.AppointmentStatus) color.RGBA {
	switch status {
	case model.AppointmentStatusPending:
		return visitPendingColor
	case model.AppointmentStatusAssigned:
		return visitAssignedColor
	case model.AppointmentStatusCompleted:
		return visitCompletedColor
	default:
		return visitCanceledColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func (wc *weekCanvas) drawCurrentTimeLine(now time.Time) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(wc.grid.StartHour) || current > float64(wc.grid.EndHour) {
		return
	}

	y := float64(headerHeight) + (current-float64(wc.grid.StartHour))*wc.cellHeight
	wc.dc.SetColor(currentTimeColor)
	wc.dc.SetLineWidth(2.0)
	wc.dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth)+totalDaysInWeek*wc.dayWidth, y)
	wc.dc.Stroke()
}

// drawLegend рисует легенду справа
func (wc *weekCanvas) drawLegend() {
	x := float64(leftLabelsWidth) + totalDaysInWeek*wc.dayWidth + 10
	y := float64(imageHeight) - 130.0

	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"Ждёт медсестру", visitPendingColor},
		{"Назначен", visitAssignedColor},
		{"Состоялся", visitCompletedColor},
		{"Отменён", visitCanceledColor},
	}

	boxW, boxH := 20.0, 14.0
	for _, item := range items {
		wc.dc.SetColor(item.Clr)
		wc.dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		wc.dc.Fill()

		loadFont(wc.dc, legendItemFontSize, FontStyleDefault)
		wc.dc.SetColor(legendItemColor)
		wc.dc.DrawStringAnchored(item.Label, x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

// truncateRunes обрезает строку до n символов с многоточием
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
