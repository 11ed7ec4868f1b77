package core

import "sync"

const loadAvgCount uint8 = 8

type MetricsState struct {
	mu sync.Mutex

	loadAvgCounter uint8
	loadMSTimes    [loadAvgCount]float64
	loadMSAvg      float64
	totalLoads     uint64
	staleDrops     uint64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			loadMSTimes: [loadAvgCount]float64{0},
		}
	})
	return nil
}

// MetricsRecordLoad folds one completed load's duration into the rolling average.
func MetricsRecordLoad(elapsedMS float64) {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()

	metricsState.loadMSTimes[metricsState.loadAvgCounter] = elapsedMS
	if metricsState.loadAvgCounter == loadAvgCount-1 {
		sum := 0.0
		for i := uint8(0); i < loadAvgCount; i++ {
			sum += metricsState.loadMSTimes[i]
		}
		metricsState.loadMSAvg = sum / float64(loadAvgCount)
	}
	metricsState.loadAvgCounter++
	metricsState.loadAvgCounter %= loadAvgCount

	metricsState.totalLoads++
}

// MetricsRecordStaleDrop counts a load completion discarded by the staleness check.
func MetricsRecordStaleDrop() {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.staleDrops++
}

func MetricsLoads() uint64 {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	return metricsState.totalLoads
}

func MetricsStaleDrops() uint64 {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	return metricsState.staleDrops
}

func MetricsAverageLoadMS() float64 {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	return metricsState.loadMSAvg
}
