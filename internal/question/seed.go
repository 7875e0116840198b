package question

import "time"

// SeedQuestions is the built-in question list, the last resort of the
// fallback chain when neither the remote table nor an imported set exists.
func SeedQuestions() []Question {
	now := time.Now().UTC().Format(time.RFC3339)
	return []Question{
		{
			ID:        "q1",
			Content:   "What is the purpose of springs in mechanical engineering?",
			Answer:    "Springs are used to store energy and provide force in mechanical systems",
			CreatedAt: now,
		},
		{
			ID:        "q2",
			Content:   "Which principle explains why airplanes can fly?",
			Answer:    "Bernoulli's principle - the relationship between fluid pressure and velocity",
			CreatedAt: now,
		},
		{
			ID:        "q3",
			Content:   "What is the main function of a capacitor in an electronic circuit?",
			Answer:    "To store and release electrical charge",
			CreatedAt: now,
		},
	}
}
