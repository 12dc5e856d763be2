package dedupe

// Compare ranks two tracks by the duplicate-retention policy. It returns a
// positive value when a should be kept over b, negative for the reverse, and
// zero when no criterion is decisive. Criteria are checked in strict priority
// order; the first difference wins.
func Compare(a, b *Track) int {
	if a.BitRate != b.BitRate {
		return sign64(a.BitRate - b.BitRate)
	}
	if a.HasLyrics != b.HasLyrics {
		return boolEdge(a.HasLyrics)
	}
	if a.HasArtwork != b.HasArtwork {
		return boolEdge(a.HasArtwork)
	}
	if a.Rating != b.Rating {
		return sign64(a.Rating - b.Rating)
	}
	if a.PlayCount != b.PlayCount {
		return sign64(a.PlayCount - b.PlayCount)
	}
	if a.DurationMS != b.DurationMS {
		return sign64(a.DurationMS - b.DurationMS)
	}
	return 0
}

func sign64(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func boolEdge(aHas bool) int {
	if aHas {
		return 1
	}
	return -1
}
