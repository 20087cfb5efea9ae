package ui

import (
	"fmt"
	"strings"
)

// Language codes
const (
	LangSystem  = "system"
	LangEnglish = "en"
	LangRussian = "ru"
	LangPortug  = "pt"
)

// Localization holds UI text translations. It is read-only after
// construction and safe for concurrent use by request handlers.
type Localization struct {
	defaultLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyEnterURL          = "enter_url"
	KeyFetchFormats      = "fetch_formats"
	KeyHint              = "hint"
	KeyFoundFormats      = "found_formats"
	KeyPlaylistDetected  = "playlist_detected"
	KeyAnalyzePlaylist   = "analyze_playlist"
	KeyAnalysisTitle     = "analysis_title"
	KeyAnalysisCaption   = "analysis_caption"
	KeyVideoTarget       = "video_target"
	KeyAudioTarget       = "audio_target"
	KeyUpToHeight        = "up_to_height"
	KeyUpToBitrate       = "up_to_bitrate"
	KeyTotal             = "total"
	KeyPerVideoCounts    = "per_video_counts"
	KeyVideoFormats      = "video_formats"
	KeyAudioFormats      = "audio_formats"
	KeySkippedVideos     = "skipped_videos"
	KeyTabAudio          = "tab_audio"
	KeyTabVideo          = "tab_video"
	KeySelectAudio       = "select_audio"
	KeySelectVideo       = "select_video"
	KeyDownloadAudio     = "download_audio"
	KeyDownloadVideo     = "download_video"
	KeyNoAudio           = "no_audio"
	KeyNoVideo           = "no_video"
	KeyQuickDownload     = "quick_download"
	KeyMode              = "mode"
	KeyQuality           = "quality"
	KeyDownload          = "download"
	KeyErrorFetchFormats = "error_fetch_formats"
	KeyErrorAnalyze      = "error_analyze"
	KeyErrorDownload     = "error_download"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyLanguage          = "language"
)

// NewLocalization creates a new localization catalog. defaultLanguage is
// used for "system" and unknown codes.
func NewLocalization(defaultLanguage string) *Localization {
	l := &Localization{
		defaultLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}
	l.initializeTexts()
	if _, ok := l.texts[defaultLanguage]; ok {
		l.defaultLanguage = defaultLanguage
	}
	return l
}

// Resolve picks a supported language: an explicit code first, then the first
// supported entry of an Accept-Language header, then the default
func (l *Localization) Resolve(lang, acceptLanguage string) string {
	if _, ok := l.texts[lang]; ok {
		return lang
	}
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := l.texts[base]; ok {
			return base
		}
	}
	return l.defaultLanguage
}

// GetText returns localized text for the given key
func (l *Localization) GetText(lang, key string) string {
	if texts, exists := l.texts[lang]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if text, found := l.texts[LangEnglish][key]; found {
		return text
	}

	// Final fallback - return key itself
	return key
}

// Format is GetText followed by fmt.Sprintf
func (l *Localization) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetText(lang, key), args...)
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LangEnglish: "English",
		LangRussian: "Русский",
		LangPortug:  "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts[LangEnglish] = map[string]string{
		KeyAppTitle:          "Ad Free YouTube Downloader",
		KeyEnterURL:          "Enter video or playlist URL",
		KeyFetchFormats:      "Fetch formats",
		KeyHint:              "Enter a URL and click 'Fetch formats' to list available download options.",
		KeyFoundFormats:      "Found %d formats",
		KeyPlaylistDetected:  "Playlist detected with %d videos. Use 'Analyze playlist sizes' below for aggregate size estimates.",
		KeyAnalyzePlaylist:   "Analyze playlist sizes",
		KeyAnalysisTitle:     "Playlist aggregate size estimates",
		KeyAnalysisCaption:   "Across %d videos. Video sizes include audio when the original format lacked it.",
		KeyVideoTarget:       "Video (target max height)",
		KeyAudioTarget:       "Audio (target max bitrate)",
		KeyUpToHeight:        "Up to %dp",
		KeyUpToBitrate:       "Up to %d kbps",
		KeyTotal:             "total",
		KeyPerVideoCounts:    "Per-video format counts",
		KeyVideoFormats:      "video fmts",
		KeyAudioFormats:      "audio fmts",
		KeySkippedVideos:     "Skipped videos",
		KeyTabAudio:          "Audio",
		KeyTabVideo:          "Video",
		KeySelectAudio:       "Select audio format",
		KeySelectVideo:       "Select video format",
		KeyDownloadAudio:     "Download audio",
		KeyDownloadVideo:     "Download video",
		KeyNoAudio:           "No standalone audio formats found.",
		KeyNoVideo:           "No video formats found.",
		KeyQuickDownload:     "Quick download",
		KeyMode:              "Mode",
		KeyQuality:           "Quality",
		KeyDownload:          "Download",
		KeyErrorFetchFormats: "Error fetching formats",
		KeyErrorAnalyze:      "Failed to analyze playlist",
		KeyErrorDownload:     "Download failed",
		KeyInvalidURL:        "Invalid URL",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyLanguage:          "Language",
	}

	// Russian texts
	l.texts[LangRussian] = map[string]string{
		KeyAppTitle:          "YouTube загрузчик без рекламы",
		KeyEnterURL:          "Введите URL видео или плейлиста",
		KeyFetchFormats:      "Получить форматы",
		KeyHint:              "Введите URL и нажмите «Получить форматы», чтобы увидеть варианты загрузки.",
		KeyFoundFormats:      "Найдено форматов: %d",
		KeyPlaylistDetected:  "Обнаружен плейлист из %d видео. Нажмите «Оценить размер плейлиста» ниже.",
		KeyAnalyzePlaylist:   "Оценить размер плейлиста",
		KeyAnalysisTitle:     "Оценка общего размера плейлиста",
		KeyAnalysisCaption:   "По %d видео. Размер видео включает аудио, если исходный формат его не содержал.",
		KeyVideoTarget:       "Видео (макс. высота)",
		KeyAudioTarget:       "Аудио (макс. битрейт)",
		KeyUpToHeight:        "До %dp",
		KeyUpToBitrate:       "До %d кбит/с",
		KeyTotal:             "всего",
		KeyPerVideoCounts:    "Форматы по видео",
		KeyVideoFormats:      "видеоформатов",
		KeyAudioFormats:      "аудиоформатов",
		KeySkippedVideos:     "Пропущенные видео",
		KeyTabAudio:          "Аудио",
		KeyTabVideo:          "Видео",
		KeySelectAudio:       "Выберите аудиоформат",
		KeySelectVideo:       "Выберите видеоформат",
		KeyDownloadAudio:     "Скачать аудио",
		KeyDownloadVideo:     "Скачать видео",
		KeyNoAudio:           "Отдельные аудиоформаты не найдены.",
		KeyNoVideo:           "Видеоформаты не найдены.",
		KeyQuickDownload:     "Быстрая загрузка",
		KeyMode:              "Режим",
		KeyQuality:           "Качество",
		KeyDownload:          "Скачать",
		KeyErrorFetchFormats: "Ошибка получения форматов",
		KeyErrorAnalyze:      "Не удалось проанализировать плейлист",
		KeyErrorDownload:     "Ошибка загрузки",
		KeyInvalidURL:        "Неверный URL",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyLanguage:          "Язык",
	}

	// Portuguese texts
	l.texts[LangPortug] = map[string]string{
		KeyAppTitle:          "YouTube Downloader sem anúncios",
		KeyEnterURL:          "Digite a URL do vídeo ou playlist",
		KeyFetchFormats:      "Buscar formatos",
		KeyHint:              "Digite uma URL e clique em 'Buscar formatos' para ver as opções de download.",
		KeyFoundFormats:      "%d formatos encontrados",
		KeyPlaylistDetected:  "Playlist detectada com %d vídeos. Use 'Analisar tamanhos da playlist' abaixo.",
		KeyAnalyzePlaylist:   "Analisar tamanhos da playlist",
		KeyAnalysisTitle:     "Estimativas de tamanho total da playlist",
		KeyAnalysisCaption:   "Em %d vídeos. Tamanhos de vídeo incluem áudio quando o formato original não tinha.",
		KeyVideoTarget:       "Vídeo (altura máxima)",
		KeyAudioTarget:       "Áudio (bitrate máximo)",
		KeyUpToHeight:        "Até %dp",
		KeyUpToBitrate:       "Até %d kbps",
		KeyTotal:             "total",
		KeyPerVideoCounts:    "Formatos por vídeo",
		KeyVideoFormats:      "formatos de vídeo",
		KeyAudioFormats:      "formatos de áudio",
		KeySkippedVideos:     "Vídeos ignorados",
		KeyTabAudio:          "Áudio",
		KeyTabVideo:          "Vídeo",
		KeySelectAudio:       "Selecione o formato de áudio",
		KeySelectVideo:       "Selecione o formato de vídeo",
		KeyDownloadAudio:     "Baixar áudio",
		KeyDownloadVideo:     "Baixar vídeo",
		KeyNoAudio:           "Nenhum formato de áudio separado encontrado.",
		KeyNoVideo:           "Nenhum formato de vídeo encontrado.",
		KeyQuickDownload:     "Download rápido",
		KeyMode:              "Modo",
		KeyQuality:           "Qualidade",
		KeyDownload:          "Baixar",
		KeyErrorFetchFormats: "Erro ao buscar formatos",
		KeyErrorAnalyze:      "Falha ao analisar playlist",
		KeyErrorDownload:     "Falha no download",
		KeyInvalidURL:        "URL inválida",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyLanguage:          "Idioma",
	}
}
