package engine

import (
	"context"
	"testing"
)

func benchmarkEpisodes(b *testing.B, policy string) {
	for i := 0; i < b.N; i++ {
		trainer, err := NewTrainer(Config{
			Episodes:   1,
			Seed:       99,
			MaxSteps:   100,
			Policy:     policy,
			Encoding:   EncodingPosition,
			Epsilon:    0.2,
			GridWidth:  10,
			GridHeight: 1,
			FlashUnits: 5,
			Logger:     quietLogger(),
		}, &scriptedEnv{})
		if err != nil {
			b.Fatalf("NewTrainer: %v", err)
		}
		for range trainer.Run(context.Background()) {
		}
	}
}

func BenchmarkEpisodeEpsilonGreedy(b *testing.B) {
	benchmarkEpisodes(b, PolicyEpsilonGreedy)
}

func BenchmarkEpisodeSoftmax(b *testing.B) {
	benchmarkEpisodes(b, PolicySoftmax)
}

func BenchmarkEpisodeUCB(b *testing.B) {
	benchmarkEpisodes(b, PolicyUCB)
}
