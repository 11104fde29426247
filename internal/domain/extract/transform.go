package extract

// apply runs each match's transform exactly once, in match order, and
// flattens the normalized results. The first transform error aborts the run.
func apply(matches []Match, reg *Registry) ([]Record, error) {
	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		res, err := reg.transform(m.Keyword)(m)
		if err != nil {
			return nil, &TransformError{Keyword: m.Keyword, Line: m.Line, Err: err}
		}
		records = appendResult(records, m, res)
	}
	return records, nil
}

func appendResult(records []Record, m Match, res Result) []Record {
	switch r := res.(type) {
	case RawRecord:
		if r.Value == nil {
			return records
		}
		return append(records, Record{Raw: r.Value})
	case StringList:
		for _, s := range r {
			if s == "" {
				continue
			}
			records = append(records, Record{String: s, Line: m.Line, Comment: m.Comment})
		}
		return records
	case Empty, nil:
		return records
	default:
		return records
	}
}
