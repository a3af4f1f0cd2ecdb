package core

// AnalysisResult is the outcome of running the classifier over a message.
// Classification never fails outright: when the pipeline cannot run normally
// it falls back to a conservative default analysis, and the degraded path is
// recorded here rather than inferred from flags alone.
type AnalysisResult struct {
	Analysis MessageAnalysis
	Degraded bool
	Reason   string
}

// Ok wraps a fully computed analysis.
func Ok(a MessageAnalysis) AnalysisResult {
	return AnalysisResult{Analysis: a}
}

// DegradedAnalysis wraps the conservative fallback analysis produced when
// classification cannot proceed, keeping the reason for logging.
func DegradedAnalysis(a MessageAnalysis, reason string) AnalysisResult {
	return AnalysisResult{Analysis: a, Degraded: true, Reason: reason}
}
