// Package language turns the language tags found on audio and subtitle
// streams into names for plan tables and log lines.
//
// A short table covers the codes and English words that show up most in
// real files, including ISO 639-2 bibliographic forms such as "fre" and
// "ger". Anything else is resolved through golang.org/x/text.
package language
