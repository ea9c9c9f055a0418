package ds1307

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/northvolt/go-ds1307/pkg/ds1307reg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func newPlaybackDev(c *qt.C, ops ...i2ctest.IO) (*Dev, *i2ctest.Playback) {
	bus := &i2ctest.Playback{Ops: ops}
	d, err := New(context.Background(), &i2c.Dev{Addr: Address, Bus: bus}, IfaceConfig{})
	c.Assert(err, qt.IsNil)
	return d, bus
}

func TestNewStartsHaltedClock(t *testing.T) {
	c := qt.New(t)
	_, bus := newPlaybackDev(c,
		// IsEnabled
		i2ctest.IO{Addr: Address, W: []byte{0x00}, R: []byte{0x95}},
		// EnableClock keeps the seconds
		i2ctest.IO{Addr: Address, W: []byte{0x00}, R: []byte{0x95}},
		i2ctest.IO{Addr: Address, W: []byte{0x00, 0x15}},
	)
	c.Assert(bus.Close(), qt.IsNil)
}

func TestNewRunningClock(t *testing.T) {
	c := qt.New(t)
	_, bus := newPlaybackDev(c,
		i2ctest.IO{Addr: Address, W: []byte{0x00}, R: []byte{0x15}},
	)
	c.Assert(bus.Close(), qt.IsNil)
}

func TestWireFormat(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	d, bus := newPlaybackDev(c,
		i2ctest.IO{Addr: Address, W: []byte{0x00}, R: []byte{0x00}},
		i2ctest.IO{Addr: Address, W: []byte{0x00, 0x30, 0x15, 0x09}},
		i2ctest.IO{Addr: Address, W: []byte{0x04, 0x14, 0x03, 0x24}},
		i2ctest.IO{Addr: Address, W: []byte{0x03, 0x04}},
		i2ctest.IO{Addr: Address, W: []byte{0x07, 0x11}},
		i2ctest.IO{Addr: Address, W: []byte{0x12}, R: []byte{0xab}},
		i2ctest.IO{Addr: Address, W: []byte{0x3f, 0xcd}},
		i2ctest.IO{Addr: Address, W: []byte{0x00}, R: []byte{0x30, 0x15, 0x69, 0x04, 0x14, 0x03, 0x24}},
	)

	c.Assert(d.SetTime(ctx, 30, 15, 9), qt.IsNil)
	c.Assert(d.SetDate(ctx, 14, 3, 24), qt.IsNil)
	c.Assert(d.SetDayOfWeek(ctx, 4), qt.IsNil)
	c.Assert(d.SetSquareWaveOutput(ctx, SquareWave4kHz), qt.IsNil)

	v, err := d.ReadRAM(ctx, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint8(0xab))
	c.Assert(d.WriteRAM(ctx, 0xcd, 55), qt.IsNil)

	tod, date, err := d.All(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(tod, qt.Equals, TimeOfDay{Seconds: 30, Minutes: 15, Hours: 9, Hour12: true, PM: true})
	c.Assert(date, qt.Equals, CalendarDate{Day: 14, Month: 3, Year: 24, Weekday: 4})

	c.Assert(bus.Close(), qt.IsNil)
}

func TestTimeRoundtrip(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)

	c.Assert(chip.speed, qt.Equals, maxSpeed)

	c.Assert(d.SetTime(ctx, 30, 15, 9), qt.IsNil)
	got, err := d.Time(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, TimeOfDay{Seconds: 30, Minutes: 15, Hours: 9})

	for _, tc := range []TimeOfDay{
		{Seconds: 0, Minutes: 0, Hours: 0},
		{Seconds: 59, Minutes: 59, Hours: 23},
		{Seconds: 7, Minutes: 40, Hours: 12, Hour12: true},
		{Seconds: 1, Minutes: 2, Hours: 12, Hour12: true, PM: true},
		{Seconds: 5, Minutes: 4, Hours: 11, Hour12: true, PM: true},
	} {
		c.Assert(d.SetTimeOfDay(ctx, tc), qt.IsNil)
		got, err := d.Time(ctx)
		c.Assert(err, qt.IsNil)
		c.Check(got, qt.Equals, tc)
	}

	// 11:04:05 PM
	c.Assert(chip.reg(ds1307reg.OffsetHours), qt.Equals, byte(0x71))
}

func TestHour24(t *testing.T) {
	c := qt.New(t)
	testCases := []struct {
		in   TimeOfDay
		want uint8
	}{
		{TimeOfDay{Hours: 17}, 17},
		{TimeOfDay{Hours: 12, Hour12: true}, 0},
		{TimeOfDay{Hours: 12, Hour12: true, PM: true}, 12},
		{TimeOfDay{Hours: 1, Hour12: true, PM: true}, 13},
		{TimeOfDay{Hours: 11, Hour12: true}, 11},
	}
	for _, tc := range testCases {
		c.Check(tc.in.Hour24(), qt.Equals, tc.want, qt.Commentf("%+v", tc.in))
	}
}

func TestDateRoundtrip(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	d := newTestDev(t, &fakeChip{})

	c.Assert(d.SetDate(ctx, 14, 3, 24), qt.IsNil)
	got, err := d.Date(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, CalendarDate{Day: 14, Month: 3, Year: 24})

	// no validation of the day against the month
	c.Assert(d.SetDate(ctx, 31, 2, 99), qt.IsNil)
	got, err = d.Date(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, CalendarDate{Day: 31, Month: 2, Year: 99})

	for weekday := uint8(1); weekday <= 7; weekday++ {
		c.Assert(d.SetDayOfWeek(ctx, weekday), qt.IsNil)
		got, err := d.DayOfWeek(ctx)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, weekday)
	}
}

func TestClockEnable(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)

	c.Assert(d.SetTime(ctx, 30, 15, 9), qt.IsNil)
	c.Assert(d.SetDate(ctx, 14, 3, 24), qt.IsNil)

	c.Assert(d.DisableClock(ctx), qt.IsNil)
	enabled, err := d.IsEnabled(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(enabled, qt.IsFalse)
	c.Assert(chip.reg(ds1307reg.OffsetSeconds), qt.Equals, byte(0xb0))

	// the halt bit is not part of the time
	tod, err := d.Time(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(tod, qt.Equals, TimeOfDay{Seconds: 30, Minutes: 15, Hours: 9})

	c.Assert(d.EnableClock(ctx), qt.IsNil)
	enabled, err = d.IsEnabled(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(enabled, qt.IsTrue)
	c.Assert(chip.reg(ds1307reg.OffsetSeconds), qt.Equals, byte(0x30))

	date, err := d.Date(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(date, qt.Equals, CalendarDate{Day: 14, Month: 3, Year: 24})
}

func TestNewEnablesHaltedClock(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	chip.setReg(ds1307reg.OffsetSeconds, 0x80|0x42)
	chip.setReg(ds1307reg.OffsetHours, 0x49)
	d := newTestDev(t, chip)

	enabled, err := d.IsEnabled(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(enabled, qt.IsTrue)
	c.Assert(chip.reg(ds1307reg.OffsetSeconds), qt.Equals, byte(0x42))
	// mode and hour untouched
	c.Assert(chip.reg(ds1307reg.OffsetHours), qt.Equals, byte(0x49))
}

func TestHourMode(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)
	c.Assert(d.HourModeHint(), qt.Equals, HourModeUnknown)

	c.Assert(d.SetTime(ctx, 0, 0, 9), qt.IsNil)

	c.Assert(d.Set12(ctx), qt.IsNil)
	c.Assert(d.HourModeHint(), qt.Equals, HourMode12)
	is24, err := d.Check24Hour(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(is24, qt.IsFalse)
	// only the mode bit changed, the hour has to be rewritten by the caller
	c.Assert(chip.reg(ds1307reg.OffsetHours), qt.Equals, byte(0x49))

	c.Assert(d.Set24(ctx), qt.IsNil)
	c.Assert(d.HourModeHint(), qt.Equals, HourMode24)
	is24, err = d.Check24Hour(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(is24, qt.IsTrue)
	c.Assert(chip.reg(ds1307reg.OffsetHours), qt.Equals, byte(0x09))
}

func TestCheck24HourQueriesDevice(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)

	c.Assert(d.Set24(ctx), qt.IsNil)
	// another bus master switches to 12-hour mode
	chip.setReg(ds1307reg.OffsetHours, 0x52)
	c.Assert(d.HourModeHint(), qt.Equals, HourMode24)

	is24, err := d.Check24Hour(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(is24, qt.IsFalse)
	c.Assert(d.HourModeHint(), qt.Equals, HourMode12)
}

func TestAllSingleTransaction(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)
	chip.setReg(ds1307reg.OffsetControl, byte(SquareWave32kHz))

	tod := TimeOfDay{Seconds: 59, Minutes: 59, Hours: 23}
	date := CalendarDate{Day: 31, Month: 12, Year: 99, Weekday: 7}

	n := chip.count()
	c.Assert(d.SetAll(ctx, tod, date), qt.IsNil)
	c.Assert(chip.count(), qt.Equals, n+1)

	gotTime, gotDate, err := d.All(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(chip.count(), qt.Equals, n+2)
	c.Assert(gotTime, qt.Equals, tod)
	c.Assert(gotDate, qt.Equals, date)

	sqw, err := d.SquareWaveOutput(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(sqw, qt.Equals, SquareWave32kHz)
}

func TestRegisters(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)

	c.Assert(d.SetTimeOfDay(ctx, TimeOfDay{Seconds: 30, Minutes: 15, Hours: 9, Hour12: true, PM: true}), qt.IsNil)
	c.Assert(d.SetSquareWaveOutput(ctx, SquareWave1Hz), qt.IsNil)

	regs, err := d.Registers(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(regs.Seconds.Value(), qt.Equals, uint8(30))
	c.Assert(regs.Hours.Bits, qt.Equals, uint8(0x69))
	c.Assert(regs.Control.SquareWaveEnabled(), qt.IsTrue)
}

func TestNowAndSet(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	d := newTestDev(t, &fakeChip{})

	want := time.Date(2024, time.March, 14, 21, 15, 30, 0, time.UTC)
	c.Assert(d.Set(ctx, want.Add(400*time.Millisecond)), qt.IsNil)

	got, err := d.Now(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, want)

	weekday, err := d.DayOfWeek(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(weekday, qt.Equals, uint8(time.Thursday)+1)

	// 12-hour encoding is converted
	c.Assert(d.SetTimeOfDay(ctx, TimeOfDay{Seconds: 30, Minutes: 15, Hours: 9, Hour12: true, PM: true}), qt.IsNil)
	got, err = d.Now(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, want)
}

func TestSetYearOutOfRange(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)
	n := chip.count()

	for _, year := range []int{1999, 2100} {
		err := d.Set(ctx, time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
		c.Assert(err, qt.ErrorIs, ErrYearOutOfRange)
	}
	c.Assert(chip.count(), qt.Equals, n)
}

func TestCancelledContext(t *testing.T) {
	c := qt.New(t)
	chip := &fakeChip{}
	d := newTestDev(t, chip)
	n := chip.count()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Time(ctx)
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(d.SetTime(ctx, 1, 2, 3), qt.ErrorIs, context.Canceled)
	c.Assert(chip.count(), qt.Equals, n)
}

func TestTransportError(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	chip := &fakeChip{}
	d := newTestDev(t, chip)

	busErr := errors.New("bus stuck")
	chip.err = busErr

	_, err := d.Time(ctx)
	c.Assert(err, qt.ErrorIs, busErr)
	c.Assert(err, qt.ErrorMatches, `ds1307: read 0x00: bus stuck`)

	err = d.SetDate(ctx, 1, 1, 1)
	c.Assert(err, qt.ErrorMatches, `ds1307: write 0x04: bus stuck`)
}

func TestNoDevice(t *testing.T) {
	c := qt.New(t)
	chip := &fakeChip{err: errFakeNACK}
	_, err := NewI2CDev(context.Background(), ConfigDS1307_I2CDefault(chip))
	c.Assert(err, qt.ErrorIs, errFakeNACK)

	_, err = NewI2CDev(context.Background(), IfaceConfig{})
	c.Assert(err, qt.ErrorIs, errNoBus)
}
