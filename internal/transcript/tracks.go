package transcript

import "strings"

// selectTrack picks a caption track in this order: a manual track in a
// preferred language, a generated track in a preferred language, any manual
// track, any generated track. Preferred languages are tried in order, and a
// preference of "en" also matches regional codes such as "en-GB".
func selectTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	for _, generated := range []bool{false, true} {
		for _, lang := range languages {
			for _, t := range tracks {
				if t.generated() == generated && languageMatches(t.LanguageCode, lang) {
					return t, true
				}
			}
		}
	}

	for _, generated := range []bool{false, true} {
		for _, t := range tracks {
			if t.generated() == generated {
				return t, true
			}
		}
	}

	return captionTrack{}, false
}

func languageMatches(code, want string) bool {
	code = strings.ToLower(code)
	want = strings.ToLower(want)
	return code == want || strings.HasPrefix(code, want+"-")
}
