package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pymysql url with default port",
			in:   "mysql+pymysql://closet:secret@db/weathercloset",
			want: "closet:secret@tcp(db:3306)/weathercloset?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "explicit port",
			in:   "mysql://closet:secret@db:3307/weathercloset",
			want: "closet:secret@tcp(db:3307)/weathercloset?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "dsn passthrough",
			in:   "closet@tcp(db:3306)/weathercloset",
			want: "closet@tcp(db:3306)/weathercloset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MySQLDSN(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateRandomSecret(t *testing.T) {
	t.Parallel()

	a, b := GenerateRandomSecret(), GenerateRandomSecret()
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
