package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForYouQueryDTO_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ForYouQueryDTO
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", in: ForYouQueryDTO{}, wantPage: 1, wantLimit: 20},
		{name: "negative page", in: ForYouQueryDTO{Page: -3, Limit: 10}, wantPage: 1, wantLimit: 10},
		{name: "limit too large", in: ForYouQueryDTO{Page: 2, Limit: 500}, wantPage: 2, wantLimit: 50},
		{name: "negative limit", in: ForYouQueryDTO{Page: 1, Limit: -1}, wantPage: 1, wantLimit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Normalize()
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}
