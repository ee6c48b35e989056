// Package language provides language code normalization for subtitle tracks.
//
// Conversions between ISO 639-1, ISO 639-2 (terminological and bibliographic)
// and the informal tags fansub releases put in subtitle file names
// ("chs", "cht", "jp") live here so the muxer and the CLI agree on the code
// written into track headers.
package language
