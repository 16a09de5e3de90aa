package config

const (
	defaultOutputDir             = "~/.local/share/reelcap/out"
	defaultFontDir               = "~/.local/share/reelcap/assets/fonts"
	defaultVideoDir              = "~/.local/share/reelcap/assets/videos"
	defaultWorkDir               = "~/.cache/reelcap/work"
	defaultLogDir                = "~/.local/share/reelcap/logs"
	defaultAPIBind               = "127.0.0.1:7489"
	defaultFont                  = "Bangers-Regular.ttf"
	defaultFontSize              = 100
	defaultFontColor             = "yellow"
	defaultStrokeWidth           = 3
	defaultStrokeColor           = "black"
	defaultWordHighlightColor    = "red"
	defaultLineCount             = 2
	defaultPadding               = 50
	defaultShadowStrength        = 1.0
	defaultShadowBlur            = 0.1
	defaultBaseVideo             = "base.mp4"
	defaultVideoCodec            = "libx264"
	defaultAudioCodec            = "aac"
	defaultThreads               = 8
	defaultImageOverlaySeconds   = 3.0
	defaultTailPaddingSeconds    = 0.5
	defaultMinFreeMiB            = 512
	defaultLayoutCacheMaxEntries = 4096
	defaultShadowCacheMaxEntries = 1024
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			FontDir:   defaultFontDir,
			VideoDir:  defaultVideoDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Captions: Captions{
			Font:                 defaultFont,
			FontSize:             defaultFontSize,
			FontColor:            defaultFontColor,
			StrokeWidth:          defaultStrokeWidth,
			StrokeColor:          defaultStrokeColor,
			HighlightCurrentWord: true,
			WordHighlightColor:   defaultWordHighlightColor,
			LineCount:            defaultLineCount,
			Padding:              defaultPadding,
			ShadowStrength:       defaultShadowStrength,
			ShadowBlur:           defaultShadowBlur,
		},
		Render: Render{
			BaseVideo:           defaultBaseVideo,
			VideoCodec:          defaultVideoCodec,
			AudioCodec:          defaultAudioCodec,
			Threads:             defaultThreads,
			ImageOverlaySeconds: defaultImageOverlaySeconds,
			TailPaddingSeconds:  defaultTailPaddingSeconds,
			MinFreeMiB:          defaultMinFreeMiB,
		},
		Cache: Cache{
			LayoutMaxEntries: defaultLayoutCacheMaxEntries,
			ShadowMaxEntries: defaultShadowCacheMaxEntries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
