package answer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "answer_pipeline_total",
		Help: "Answer pipeline completions by outcome",
	}, []string{"outcome"})

	answerChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "answer_chunks_streamed_total",
		Help: "Answer chunks streamed to clients",
	})
)
