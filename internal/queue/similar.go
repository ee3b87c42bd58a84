package queue

import (
	"context"
	"encoding/json"
	"strings"

	"shortform/internal/textutil"
)

// SimilarJob reports an existing job whose script closely matches a
// candidate submission.
type SimilarJob struct {
	Job        *Job
	Similarity float64
}

// FindSimilarScript compares the candidate script against every queued job
// and returns the closest match at or above threshold, or nil. Fingerprints
// are TF-IDF weighted over the stored corpus so boilerplate shared by most
// scripts (CTA phrasing, channel taglines) counts less than distinctive
// narration. Used to warn about accidental duplicate submissions.
func (s *Store) FindSimilarScript(ctx context.Context, scriptJSON string, threshold float64) (*SimilarJob, error) {
	candidate := textutil.NewFingerprint(scriptNarration(scriptJSON))
	if candidate.TokenCount() == 0 {
		return nil, nil
	}

	jobs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	corpus := textutil.NewCorpus()
	corpus.Add(candidate)
	prints := make([]*textutil.Fingerprint, len(jobs))
	for i, job := range jobs {
		prints[i] = textutil.NewFingerprint(scriptNarration(job.ScriptJSON))
		corpus.Add(prints[i])
	}
	idf := corpus.IDF()
	candidate = candidate.WithIDF(idf)

	var best *SimilarJob
	for i, job := range jobs {
		existing := prints[i].WithIDF(idf)
		if existing.TokenCount() == 0 {
			continue
		}
		score := textutil.CosineSimilarity(candidate, existing)
		if score < threshold {
			continue
		}
		if best == nil || score > best.Similarity {
			best = &SimilarJob{Job: job, Similarity: score}
		}
	}
	return best, nil
}

// scriptNarration extracts the spoken text from a script document for
// fingerprinting, ignoring structure and tags.
func scriptNarration(scriptJSON string) string {
	var doc struct {
		Title    string `json:"title"`
		Hook     string `json:"hook"`
		Body     string `json:"body"`
		CTA      string `json:"cta"`
		Segments []struct {
			Text string `json:"text"`
		} `json:"segments"`
	}
	if err := json.Unmarshal([]byte(scriptJSON), &doc); err != nil {
		return ""
	}
	parts := []string{doc.Hook, doc.Body, doc.CTA}
	for _, segment := range doc.Segments {
		parts = append(parts, segment.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
