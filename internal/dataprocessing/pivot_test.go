package dataprocessing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoursreport/pkg/contracts/domain"
)

func rec(job, emp, date, sick, wali string) domain.Record {
	return domain.Record{
		JobDescription: job,
		EmpName:        emp,
		CheckDate:      date,
		ESSickHours:    domain.ParseHours(sick),
		EWALIWALIHours: domain.ParseHours(wali),
	}
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		rec("Nurse", "Alice", "2024-01-01", "8", "2"),
		rec("Nurse", "Bob", "2024-01-01", "4", ""),
		rec("Clerk", "Carol", "2024-01-02", "", "6.5"),
		rec("Nurse", "Alice", "2024-01-02", "1", "1"),
		rec("Nurse", "Alice", "2024-01-01", "3", "0"),
		rec("", "Dave", "2024-01-03", "2", "x"),
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.Record
		job     string
		emp     string
		date    string
		want    float64
	}{
		{
			name: "sums both hour columns",
			records: []domain.Record{
				rec("Nurse", "Alice", "2024-01-01", "8", "2"),
			},
			job: "Nurse", emp: "Alice", date: "2024-01-01", want: 10,
		},
		{
			name: "records on the same path add up",
			records: []domain.Record{
				rec("Nurse", "Alice", "2024-01-01", "40", "0"),
				rec("Nurse", "Alice", "2024-01-01", "5", "0"),
			},
			job: "Nurse", emp: "Alice", date: "2024-01-01", want: 45,
		},
		{
			name: "missing employee falls into Unknown",
			records: []domain.Record{
				rec("Clerk", "", "2024-01-02", "3", ""),
			},
			job: "Clerk", emp: "Unknown", date: "2024-01-02", want: 3,
		},
		{
			name: "non numeric hours count as zero",
			records: []domain.Record{
				rec("Clerk", "Carol", "2024-01-02", "abc", "4"),
			},
			job: "Clerk", emp: "Carol", date: "2024-01-02", want: 4,
		},
		{
			name: "missing date falls into Unknown",
			records: []domain.Record{
				rec("Clerk", "Carol", "", "1", "1"),
			},
			job: "Clerk", emp: "Carol", date: "Unknown", want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Aggregate(tt.records)
			got, ok := p.Hours(tt.job, tt.emp, tt.date)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAggregateAdditivity(t *testing.T) {
	a := []domain.Record{
		rec("Nurse", "Alice", "2024-01-01", "8", "2"),
		rec("Clerk", "Carol", "2024-01-02", "1", ""),
	}
	b := []domain.Record{
		rec("Nurse", "Alice", "2024-01-01", "3", "1"),
		rec("Nurse", "Bob", "2024-01-01", "7", ""),
	}

	pa, pb := Aggregate(a), Aggregate(b)
	combined := Aggregate(append(append([]domain.Record{}, a...), b...))

	for job, emps := range combined.AsMap() {
		for emp, dates := range emps {
			for date, v := range dates {
				va, _ := pa.Hours(job, emp, date)
				vb, _ := pb.Hours(job, emp, date)
				assert.InDelta(t, va+vb, v, 1e-9, "%s/%s/%s", job, emp, date)
			}
		}
	}
}

func TestAggregateGroupingTotal(t *testing.T) {
	records := sampleRecords()
	var want float64
	for _, r := range records {
		want += r.TotalHours()
	}
	assert.InDelta(t, want, Aggregate(records).Total(), 1e-9)
}

func TestAggregateOrderIndependence(t *testing.T) {
	records := sampleRecords()
	want := Aggregate(records).AsMap()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]domain.Record{}, records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Aggregate(shuffled).AsMap())
	}
}

func TestAggregateNeverDropsRows(t *testing.T) {
	p := Aggregate([]domain.Record{{}})
	v, ok := p.Hours("Unknown", "Unknown", "Unknown")
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestCountAtOrAbove(t *testing.T) {
	p := Aggregate([]domain.Record{
		rec("Nurse", "Alice", "2024-01-01", "40", "0"),
		rec("Nurse", "Alice", "2024-01-01", "5", "0"),
		rec("Nurse", "Bob", "2024-01-01", "39.99", ""),
		rec("Nurse", "Cara", "2024-01-02", "40", ""),
	})

	tests := []struct {
		name      string
		job       string
		date      string
		threshold float64
		want      int
	}{
		{"nurse at 40", "Nurse", "2024-01-01", 40, 1},
		{"equal counts", "Nurse", "2024-01-02", 40, 1},
		{"just below does not count", "Nurse", "2024-01-01", 39.995, 1},
		{"zero threshold counts absent entries", "Nurse", "2024-01-01", 0, 3},
		{"unknown job", "Porter", "2024-01-01", 0, 0},
		{"high threshold", "Nurse", "2024-01-01", 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountAtOrAbove(p, tt.job, tt.date, tt.threshold))
		})
	}
}

func TestCountAtOrAboveBoundary(t *testing.T) {
	p := Aggregate([]domain.Record{rec("Nurse", "Alice", "2024-01-01", "40", "")})

	assert.Equal(t, 1, CountAtOrAbove(p, "Nurse", "2024-01-01", 40))
	assert.Equal(t, 0, CountAtOrAbove(p, "Nurse", "2024-01-01", 40.0001))
	// repeatable
	assert.Equal(t, 1, CountAtOrAbove(p, "Nurse", "2024-01-01", 40))
}
