package ds1307

import (
	"context"
	"sync"
	"time"

	"github.com/northvolt/go-ds1307/pkg/ds1307reg"
)

// Address is the I²C address of the DS1307.
//
// The address is fixed in silicon, so there can only be one device per bus.
const Address = 0x68

// BaseYear is the year the year register counts from.
const BaseYear = 2000

// HourMode is the 12/24-hour mode of the hours register.
type HourMode int

const (
	HourModeUnknown HourMode = iota
	HourMode12
	HourMode24
)

func (m HourMode) String() string {
	switch m {
	case HourMode12:
		return "12h"
	case HourMode24:
		return "24h"
	default:
		return "unknown"
	}
}

func hourModeOf(is24 bool) HourMode {
	if is24 {
		return HourMode24
	}
	return HourMode12
}

// TimeOfDay is the content of the time registers.
type TimeOfDay struct {
	Seconds uint8
	Minutes uint8
	// Hours is 1..12 when Hour12 is set and 0..23 otherwise.
	Hours  uint8
	Hour12 bool
	// PM is only meaningful when Hour12 is set.
	PM bool
}

// Hour24 returns the hour of day in 0..23 regardless of the mode.
func (t TimeOfDay) Hour24() uint8 {
	if !t.Hour12 {
		return t.Hours
	}
	hour := t.Hours % 12
	if t.PM {
		hour += 12
	}
	return hour
}

// CalendarDate is the content of the date registers.
//
// Day is not validated against the length of the month, neither by the
// driver nor by the device.
type CalendarDate struct {
	Day   uint8
	Month uint8
	// Year is the offset from BaseYear, 0..99.
	Year uint8
	// Weekday is 1..7. The device increments it at midnight and leaves its
	// meaning to the user.
	Weekday uint8
}

// Dev is a DS1307 device.
//
// Dev is safe for concurrent use. Each method holds a lock for all of its bus
// transactions, but nothing protects against another bus master.
type Dev struct {
	mu   sync.Mutex
	hal  HAL
	cfg  IfaceConfig
	log  Logger
	mode HourMode
}

// New returns a new DS1307 device using the supplied HAL for communication.
//
// The oscillator is started if it is halted. The hours register is left
// untouched: the mode bit can only be changed together with the hour.
func New(ctx context.Context, hal HAL, cfg IfaceConfig) (*Dev, error) {
	d := &Dev{
		hal: hal,
		cfg: cfg,
		log: getLogger(cfg),
	}
	d.hal = &halDebug{"rtc", d.log, d.hal}
	return d, d.init(ctx)
}

func (d *Dev) init(ctx context.Context) error {
	enabled, err := d.IsEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		d.log.Printf("clock halted, starting oscillator")
		return d.EnableClock(ctx)
	}
	return nil
}

// IsEnabled returns true if the oscillator is running.
func (d *Dev) IsEnabled(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.readRegister(ctx, ds1307reg.OffsetSeconds)
	if err != nil {
		return false, err
	}
	return !ds1307reg.Seconds{Bits: v}.Halted(), nil
}

// EnableClock clears the clock-halt bit.
//
// The seconds are read back and preserved.
func (d *Dev) EnableClock(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.updateRegister(ctx, ds1307reg.OffsetSeconds, ds1307reg.ClockHaltBit, 0)
}

// DisableClock sets the clock-halt bit, stopping the oscillator.
//
// The seconds are read back and preserved.
func (d *Dev) DisableClock(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.updateRegister(ctx, ds1307reg.OffsetSeconds, ds1307reg.ClockHaltBit, ds1307reg.ClockHaltBit)
}

// Time reads the time registers.
//
// Hours are decoded according to the mode bit stored alongside them.
func (d *Dev) Time(ctx context.Context) (TimeOfDay, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf [3]byte
	if err := d.readRegisters(ctx, ds1307reg.OffsetSeconds, buf[:]); err != nil {
		return TimeOfDay{}, err
	}

	var regs ds1307reg.Registers
	if err := ds1307reg.UnmarshalPartial(buf[:], ds1307reg.OffsetSeconds, &regs); err != nil {
		return TimeOfDay{}, err
	}
	d.mode = hourModeOf(!regs.Hours.Mode12())
	return timeOfDay(regs), nil
}

// SetTime writes seconds, minutes and hours (0..23) in 24-hour form.
//
// Writing the seconds register also clears the clock-halt bit.
func (d *Dev) SetTime(ctx context.Context, seconds, minutes, hours uint8) error {
	return d.SetTimeOfDay(ctx, TimeOfDay{
		Seconds: seconds,
		Minutes: minutes,
		Hours:   hours,
	})
}

// SetTimeOfDay writes t, in 12-hour form if t.Hour12 is set.
func (d *Dev) SetTimeOfDay(ctx context.Context, t TimeOfDay) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := []byte{
		ds1307reg.DecimalToBCD(t.Seconds),
		ds1307reg.DecimalToBCD(t.Minutes),
		encodeHours(t),
	}
	if err := d.writeRegisters(ctx, ds1307reg.OffsetSeconds, buf); err != nil {
		return err
	}
	d.mode = hourModeOf(!t.Hour12)
	return nil
}

// Date reads day, month and year. Weekday is not read and left zero.
func (d *Dev) Date(ctx context.Context) (CalendarDate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf [3]byte
	if err := d.readRegisters(ctx, ds1307reg.OffsetDay, buf[:]); err != nil {
		return CalendarDate{}, err
	}

	var regs ds1307reg.Registers
	if err := ds1307reg.UnmarshalPartial(buf[:], ds1307reg.OffsetDay, &regs); err != nil {
		return CalendarDate{}, err
	}
	date := calendarDate(regs)
	date.Weekday = 0
	return date, nil
}

// SetDate writes day, month and year (offset from BaseYear).
func (d *Dev) SetDate(ctx context.Context, day, month, year uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := []byte{
		ds1307reg.DecimalToBCD(day),
		ds1307reg.DecimalToBCD(month),
		ds1307reg.DecimalToBCD(year),
	}
	return d.writeRegisters(ctx, ds1307reg.OffsetDay, buf)
}

// DayOfWeek reads the weekday register.
func (d *Dev) DayOfWeek(ctx context.Context) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.readRegister(ctx, ds1307reg.OffsetWeekday)
	if err != nil {
		return 0, err
	}
	return ds1307reg.BCDToDecimal(v), nil
}

// SetDayOfWeek writes the weekday register.
func (d *Dev) SetDayOfWeek(ctx context.Context, weekday uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.writeRegister(ctx, ds1307reg.OffsetWeekday, ds1307reg.DecimalToBCD(weekday))
}

// All reads time, weekday and date.
//
// All registers are read in one sequential transaction. The device latches
// the time on the start condition, so the result cannot be torn by a rollover.
func (d *Dev) All(ctx context.Context) (TimeOfDay, CalendarDate, error) {
	regs, err := d.registers(ctx, ds1307reg.OffsetControl)
	if err != nil {
		return TimeOfDay{}, CalendarDate{}, err
	}
	return timeOfDay(regs), calendarDate(regs), nil
}

// SetAll writes time, weekday and date in one transaction.
func (d *Dev) SetAll(ctx context.Context, t TimeOfDay, date CalendarDate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	regs := ds1307reg.Registers{
		Seconds: ds1307reg.Seconds{Bits: ds1307reg.DecimalToBCD(t.Seconds)},
		Minutes: ds1307reg.BCD(ds1307reg.DecimalToBCD(t.Minutes)),
		Hours:   ds1307reg.Hours{Bits: encodeHours(t)},
		Weekday: ds1307reg.BCD(ds1307reg.DecimalToBCD(date.Weekday)),
		Day:     ds1307reg.BCD(ds1307reg.DecimalToBCD(date.Day)),
		Month:   ds1307reg.BCD(ds1307reg.DecimalToBCD(date.Month)),
		Year:    ds1307reg.BCD(ds1307reg.DecimalToBCD(date.Year)),
	}
	b, err := ds1307reg.Marshal(regs)
	if err != nil {
		return err
	}

	// leave the control register alone
	if err := d.writeRegisters(ctx, ds1307reg.OffsetSeconds, b[:ds1307reg.OffsetControl]); err != nil {
		return err
	}
	d.mode = hourModeOf(!t.Hour12)
	return nil
}

// Registers reads the whole timekeeping block, control register included.
func (d *Dev) Registers(ctx context.Context) (ds1307reg.Registers, error) {
	return d.registers(ctx, ds1307reg.TimekeepingSize)
}

func (d *Dev) registers(ctx context.Context, n int) (ds1307reg.Registers, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var regs ds1307reg.Registers
	buf := make([]byte, n)
	if err := d.readRegisters(ctx, ds1307reg.OffsetSeconds, buf); err != nil {
		return regs, err
	}
	if err := ds1307reg.UnmarshalPartial(buf, ds1307reg.OffsetSeconds, &regs); err != nil {
		return regs, err
	}
	d.mode = hourModeOf(!regs.Hours.Mode12())
	return regs, nil
}

// Now returns the time of the device, assumed to be UTC.
func (d *Dev) Now(ctx context.Context) (time.Time, error) {
	t, date, err := d.All(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		BaseYear+int(date.Year),
		time.Month(date.Month),
		int(date.Day),
		int(t.Hour24()),
		int(t.Minutes),
		int(t.Seconds),
		0,
		time.UTC,
	), nil
}

// Set writes t, truncated to the second, in 24-hour form. The weekday is set
// to 1 for Sunday through 7 for Saturday.
//
// It returns ErrYearOutOfRange if t is not within BaseYear and the 99 years
// following it.
func (d *Dev) Set(ctx context.Context, t time.Time) error {
	t = t.UTC()
	if t.Year() < BaseYear || t.Year() >= BaseYear+100 {
		return ErrYearOutOfRange
	}
	return d.SetAll(ctx,
		TimeOfDay{
			Seconds: uint8(t.Second()),
			Minutes: uint8(t.Minute()),
			Hours:   uint8(t.Hour()),
		},
		CalendarDate{
			Day:     uint8(t.Day()),
			Month:   uint8(t.Month()),
			Year:    uint8(t.Year() - BaseYear),
			Weekday: uint8(t.Weekday()) + 1,
		},
	)
}

// Check24Hour returns true if the device is in 24-hour mode.
//
// The device is always queried; the result also refreshes HourModeHint.
func (d *Dev) Check24Hour(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.readRegister(ctx, ds1307reg.OffsetHours)
	if err != nil {
		return false, err
	}
	is24 := !ds1307reg.Hours{Bits: v}.Mode12()
	d.mode = hourModeOf(is24)
	return is24, nil
}

// Set24 clears the 12-hour mode bit.
//
// Only the mode bit is changed. The hour digits are still encoded in the old
// mode, so the caller must rewrite the hour with SetTime or SetTimeOfDay.
func (d *Dev) Set24(ctx context.Context) error {
	return d.setMode(ctx, HourMode24)
}

// Set12 sets the 12-hour mode bit.
//
// See Set24 about rewriting the hour.
func (d *Dev) Set12(ctx context.Context) error {
	return d.setMode(ctx, HourMode12)
}

func (d *Dev) setMode(ctx context.Context, mode HourMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var bits uint8
	if mode == HourMode12 {
		bits = ds1307reg.ModeBit
	}
	if err := d.updateRegister(ctx, ds1307reg.OffsetHours, ds1307reg.ModeBit, bits); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// HourModeHint returns the mode last written or read by this Dev.
//
// It is never read from the device and goes stale if another bus master
// changes the mode. Use Check24Hour for an authoritative answer.
func (d *Dev) HourModeHint() HourMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// SetSquareWaveOutput writes the control register. The value is not read
// back.
func (d *Dev) SetSquareWaveOutput(ctx context.Context, sqw SquareWave) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.writeRegister(ctx, ds1307reg.OffsetControl, uint8(sqw))
}

// SquareWaveOutput reads the control register.
func (d *Dev) SquareWaveOutput(ctx context.Context) (SquareWave, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.readRegister(ctx, ds1307reg.OffsetControl)
	return SquareWave(v), err
}

func timeOfDay(regs ds1307reg.Registers) TimeOfDay {
	return TimeOfDay{
		Seconds: regs.Seconds.Value(),
		Minutes: regs.Minutes.Value(),
		Hours:   regs.Hours.Value(),
		Hour12:  regs.Hours.Mode12(),
		PM:      regs.Hours.PM(),
	}
}

func calendarDate(regs ds1307reg.Registers) CalendarDate {
	return CalendarDate{
		Day:     regs.Day.Value(),
		Month:   regs.Month.Value(),
		Year:    regs.Year.Value(),
		Weekday: regs.Weekday.Value(),
	}
}

func encodeHours(t TimeOfDay) uint8 {
	if t.Hour12 {
		return ds1307reg.EncodeHour12(t.Hours, t.PM)
	}
	return ds1307reg.EncodeHour24(t.Hours)
}

// readRegisters reads len(b) sequential registers starting at reg.
//
// Callers must hold d.mu.
func (d *Dev) readRegisters(ctx context.Context, reg uint8, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.hal.Tx([]byte{reg}, b); err != nil {
		return &txError{reg, "read", err}
	}
	return nil
}

// writeRegisters writes b to sequential registers starting at reg.
//
// Callers must hold d.mu.
func (d *Dev) writeRegisters(ctx context.Context, reg uint8, b []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w := make([]byte, 0, len(b)+1)
	w = append(w, reg)
	w = append(w, b...)
	if err := d.hal.Tx(w, nil); err != nil {
		return &txError{reg, "write", err}
	}
	return nil
}

func (d *Dev) readRegister(ctx context.Context, reg uint8) (uint8, error) {
	var buf [1]byte
	err := d.readRegisters(ctx, reg, buf[:])
	return buf[0], err
}

func (d *Dev) writeRegister(ctx context.Context, reg uint8, v uint8) error {
	return d.writeRegisters(ctx, reg, []byte{v})
}

// updateRegister replaces the bits in mask with bits, keeping the rest of the
// register as read from the device.
func (d *Dev) updateRegister(ctx context.Context, reg uint8, mask uint8, bits uint8) error {
	v, err := d.readRegister(ctx, reg)
	if err != nil {
		return err
	}
	return d.writeRegister(ctx, reg, v&^mask|bits&mask)
}
