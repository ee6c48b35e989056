package config

const (
	defaultConfigPath        = "~/.config/fontmux/config.toml"
	defaultFontCachePath     = "~/.cache/fontmux/fonts.db"
	defaultPyftsubsetBinary  = "pyftsubset"
	defaultMkvmergeBinary    = "mkvmerge"
	defaultIdentifierLength  = 10
	defaultOutputDir         = "output"
	defaultLanguage          = "chi"
	defaultMuxTimeoutSeconds = 3600
	defaultSubsetTimeout     = 300
	defaultScratchDir        = "temp_fonts_mux"
	defaultFallbackEncoding  = "gb18030"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogFileName       = "mux.log"

	// EnginePyftsubset shells out to fontTools' pyftsubset.
	EnginePyftsubset = "pyftsubset"
	// EngineNative subsets in-process.
	EngineNative = "native"
)

var (
	defaultIgnoreFonts   = []string{"default", "arial", "sans-serif"}
	defaultSmartSuffixes = []string{"_gbk", "_gb2312", "_big5", "_jis", "_kr"}
	defaultExtensions    = []string{".ass", ".ssa"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Fonts: Fonts{
			Ignore:        append([]string(nil), defaultIgnoreFonts...),
			SmartSuffixes: append([]string(nil), defaultSmartSuffixes...),
			CachePath:     defaultFontCachePath,
		},
		Subset: Subset{
			Enabled:          true,
			Engine:           EnginePyftsubset,
			PyftsubsetBinary: defaultPyftsubsetBinary,
			IdentifierLength: defaultIdentifierLength,
			TimeoutSeconds:   defaultSubsetTimeout,
		},
		Mux: Mux{
			MkvmergeBinary: defaultMkvmergeBinary,
			OutputDir:      defaultOutputDir,
			Language:       defaultLanguage,
			TimeoutSeconds: defaultMuxTimeoutSeconds,
		},
		Run: Run{
			ScratchDir: defaultScratchDir,
		},
		Subtitles: Subtitles{
			Extensions:       append([]string(nil), defaultExtensions...),
			FallbackEncoding: defaultFallbackEncoding,
		},
		Logging: Logging{
			Format:   defaultLogFormat,
			Level:    defaultLogLevel,
			FileName: defaultLogFileName,
		},
	}
}
