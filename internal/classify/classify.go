package classify

// Shift is a shift window in seconds from midnight with grace periods in minutes.
type Shift struct {
	Start             int
	End               int
	LateGraceMinutes  int
	EarlyGraceMinutes int
}

// Day carries the observed check-in span of one employee day in seconds from midnight.
type Day struct {
	In             int
	Out            int
	HasIn          bool
	HasOut         bool
	WorkingSeconds int
}

// Outcome is the per day deviation from the shift. Seconds fields are zero
// when there is no deviation. OvertimeKnown/ActualOvertimeKnown are false when
// the shift bounds do not allow the value to be computed.
type Outcome struct {
	LateEntry             bool
	LateBySeconds         int
	LateKnown             bool
	EarlyExit             bool
	EarlyBySeconds        int
	EarlyKnown            bool
	OvertimeSeconds       int
	OvertimeKnown         bool
	ActualOvertimeSeconds int
	ActualOvertimeKnown   bool
}

// Evaluate compares an employee day against the shift window. With
// considerGrace the late threshold moves forward by the late grace and the
// early threshold moves back by the early grace. Deviations are always
// measured from the raw shift bounds.
func Evaluate(day Day, shift Shift, considerGrace bool) Outcome {
	var out Outcome

	if day.HasIn {
		threshold := shift.Start
		if considerGrace {
			threshold += shift.LateGraceMinutes * 60
		}
		out.LateKnown = true
		if day.In > threshold {
			out.LateEntry = true
			out.LateBySeconds = max(0, day.In-shift.Start)
		}
	}

	if day.HasOut {
		threshold := shift.End
		if considerGrace {
			threshold -= shift.EarlyGraceMinutes * 60
		}
		out.EarlyKnown = true
		if day.Out < threshold {
			out.EarlyExit = true
			out.EarlyBySeconds = max(0, shift.End-day.Out)
		}
	}

	if day.HasOut && shift.End != 0 {
		out.OvertimeKnown = true
		if day.Out > shift.End {
			out.OvertimeSeconds = day.Out - shift.End
		}
	}

	if shift.Start != 0 && shift.End != 0 {
		out.ActualOvertimeKnown = true
		duration := shift.End - shift.Start
		if day.WorkingSeconds > duration {
			out.ActualOvertimeSeconds = day.WorkingSeconds - duration
		}
	}

	return out
}
