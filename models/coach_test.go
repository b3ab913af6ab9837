package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoachTableName(t *testing.T) {
	assert.Equal(t, "coaches", Coach{}.TableName())
}

func TestCoachDays(t *testing.T) {
	coach := Coach{AvailableDays: "Monday, Tuesday,,Friday "}
	assert.Equal(t, []string{"Monday", "Tuesday", "Friday"}, coach.Days())

	assert.Empty(t, Coach{}.Days())
}

func TestCoachWorksOn(t *testing.T) {
	coach := Coach{AvailableDays: "Monday,Tuesday"}

	tests := []struct {
		weekday time.Weekday
		want    bool
	}{
		{time.Monday, true},
		{time.Tuesday, true},
		{time.Wednesday, false},
		{time.Sunday, false},
	}

	for _, tt := range tests {
		t.Run(tt.weekday.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, coach.WorksOn(tt.weekday))
		})
	}
}

func TestCoachWorksOn_CaseInsensitive(t *testing.T) {
	coach := Coach{AvailableDays: "monday,SATURDAY"}
	assert.True(t, coach.WorksOn(time.Monday))
	assert.True(t, coach.WorksOn(time.Saturday))
}
