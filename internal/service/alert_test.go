package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/testutil"
)

func TestAlerts_KeepsNewest(t *testing.T) {
	a := NewAlerts(3, testutil.MakeNoopLogger())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	var notified int
	unsubscribe := a.Subscribe(func([]model.Alert) { notified++ })
	defer unsubscribe()

	for i := 0; i < 5; i++ {
		a.Alert(context.Background(), model.Alert{Entity: "skill", Key: fmt.Sprint(i)})
	}

	recent := a.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "2", recent[0].Key)
	assert.Equal(t, "4", recent[2].Key)
	assert.Equal(t, fixed, recent[0].CreatedAt)
	assert.Equal(t, 5, notified)
}

func TestNewAlerts_DefaultLimit(t *testing.T) {
	a := NewAlerts(0, testutil.MakeNoopLogger())
	assert.Equal(t, DefaultAlertLimit, a.limit)
}
