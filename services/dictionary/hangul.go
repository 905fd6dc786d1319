package dictionary

import (
	"errors"
	"strings"
)

// Hangul syllable composition. The board deals out compatibility jamo
// (single consonants and vowels); a submission is only meaningful once
// the sequence composes into full syllable blocks, which is also the
// form the external dictionary expects.

var ErrNotComposable = errors.New("jamo sequence does not form syllables")

const syllableBase = 0xAC00

var choseong = []rune("ㄱㄲㄴㄷㄸㄹㅁㅂㅃㅅㅆㅇㅈㅉㅊㅋㅌㅍㅎ")
var jungseong = []rune("ㅏㅐㅑㅒㅓㅔㅕㅖㅗㅘㅙㅚㅛㅜㅝㅞㅟㅠㅡㅢㅣ")
var jongseong = []rune("ㄱㄲㄳㄴㄵㄶㄷㄹㄺㄻㄼㄽㄾㄿㅀㅁㅂㅄㅅㅆㅇㅈㅊㅋㅌㅍㅎ") // index 0 (no final) handled separately

func indexOf(table []rune, r rune) int {
	for i, c := range table {
		if c == r {
			return i
		}
	}
	return -1
}

func isConsonant(r rune) bool { return indexOf(choseong, r) >= 0 }
func isVowel(r rune) bool     { return indexOf(jungseong, r) >= 0 }

// Compose turns a jamo sequence into syllable blocks. A consonant
// between two syllables belongs to the next block when a vowel follows
// it, otherwise it is the final of the current block.
func Compose(jamo []rune) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(jamo) {
		ci := indexOf(choseong, jamo[i])
		if ci < 0 || i+1 >= len(jamo) {
			return "", ErrNotComposable
		}
		vi := indexOf(jungseong, jamo[i+1])
		if vi < 0 {
			return "", ErrNotComposable
		}

		fi := 0
		next := i + 2
		if next < len(jamo) && isConsonant(jamo[next]) {
			// Final consonant, unless it starts the next syllable.
			if next+1 >= len(jamo) || isConsonant(jamo[next+1]) {
				ji := indexOf(jongseong, jamo[next])
				if ji < 0 {
					return "", ErrNotComposable
				}
				fi = ji + 1
				next++
			}
		}

		sb.WriteRune(rune(syllableBase + (ci*21+vi)*28 + fi))
		i = next
	}
	if sb.Len() == 0 {
		return "", ErrNotComposable
	}
	return sb.String(), nil
}

// SyllableCount counts the composed blocks of a word.
func SyllableCount(word string) int {
	return len([]rune(word))
}
