// Package concepts extracts visual concepts from script text. A set of
// lexicon tables maps words to locations, objects, emotions, time-of-day
// references, and actions, and a static expansion table turns the detected
// concepts into stock-footage search queries.
package concepts
