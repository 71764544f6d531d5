package services

import (
	"testing"
	"time"

	"wasteflow-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePickupDate(t *testing.T) {
	// A Monday, fixed so the calendar rules are stable.
	now := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    string
		wantErr string
	}{
		{name: "future weekday", date: "2025-03-12"},
		{name: "today is allowed", date: "2025-03-10"},
		{name: "saturday rejected", date: "2025-03-15", wantErr: "weekend"},
		{name: "sunday rejected", date: "2025-03-16", wantErr: "weekend"},
		{name: "past weekday rejected", date: "2025-03-07", wantErr: "past"},
		{name: "garbage rejected", date: "not-a-date", wantErr: "valid date"},
		{name: "wrong layout rejected", date: "12/03/2025", wantErr: "valid date"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidatePickupDate(tc.date, now)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.date, got)
		})
	}
}
