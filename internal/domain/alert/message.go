package alert

import (
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEVERITY BUNDLES
// ══════════════════════════════════════════════════════════════════════════════

// Bundle is the fixed (priority, label, recommendation) tuple attached to a
// tracked emotion. The mapping is a total function: every tracked emotion
// has exactly one bundle.
type Bundle struct {
	// Title - the headline of the alert message.
	Title string

	// PatternLabel - the human description of the detected pattern.
	PatternLabel string

	// PatternEmoji - the emoji shown next to the pattern line.
	PatternEmoji string

	// Recommendations - counselor follow-up steps, in order.
	Recommendations []string

	// Action - the suggested timeframe for follow-up.
	Action string

	// PriorityLabel - the priority line at the bottom of the message.
	PriorityLabel string
}

var bundles = map[Severity]Bundle{
	SeverityHigh: {
		Title:        "🚨 EMOCLASS ALERT - PERLU PERHATIAN KHUSUS",
		PatternLabel: "Emosi sedih/tertekan selama 3 hari berturut-turut",
		PatternEmoji: "😔",
		Recommendations: []string{
			"🗣️ Lakukan konseling individual segera",
			"🏠 Hubungi orang tua/wali untuk koordinasi",
			"👥 Pertimbangkan sesi kelompok dukungan sebaya",
			"📋 Evaluasi faktor akademik atau sosial yang mungkin menjadi penyebab",
			"💚 Pantau perkembangan emosi harian minggu depan",
		},
		Action:        "Jadwalkan pertemuan dalam 1-2 hari kerja",
		PriorityLabel: "TINGGI",
	},
	SeverityMedium: {
		Title:        "🚨 EMOCLASS ALERT - PERHATIAN KESEHATAN",
		PatternLabel: "Mengantuk/kelelahan selama 3 hari berturut-turut",
		PatternEmoji: "😴",
		Recommendations: []string{
			"🛏️ Tanyakan pola tidur dan kesehatan siswa",
			"📱 Evaluasi penggunaan gadget sebelum tidur",
			"🏠 Konsultasi dengan orang tua tentang rutinitas malam",
			"🏥 Pertimbangkan rujukan ke tenaga kesehatan jika perlu",
			"💡 Edukasi pentingnya sleep hygiene dan istirahat cukup",
			"📚 Evaluasi beban tugas dan kegiatan ekstrakurikuler",
		},
		Action:        "Konseling ringan dalam 2-3 hari",
		PriorityLabel: "SEDANG",
	},
	SeverityLow: {
		Title:        "ℹ️ EMOCLASS MONITORING - PEMANTAUAN RUTIN",
		PatternLabel: "Energi normal/datar selama 3 hari berturut-turut",
		PatternEmoji: "🙂",
		Recommendations: []string{
			"💬 Lakukan check-in informal untuk memahami kondisi siswa",
			"🎯 Evaluasi motivasi dan engagement di kelas",
			"🌟 Cari peluang untuk meningkatkan keterlibatan positif",
			"🤝 Pertimbangkan aktivitas yang bisa meningkatkan semangat",
			"📊 Pantau apakah ini pola konsisten atau fase sementara",
		},
		Action:        "Observasi dan check-in informal minggu ini",
		PriorityLabel: "RENDAH - Monitoring",
	},
}

// BundleFor returns the fixed bundle for a severity.
func BundleFor(s Severity) Bundle {
	return bundles[s]
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE COMPOSITION
// ══════════════════════════════════════════════════════════════════════════════

// ComposeMessage renders the full alert text for the notification channel.
// The message carries the student name, class name, pattern label, and the
// severity's recommendation bundle.
func ComposeMessage(studentName, className string, ev *Event) string {
	b := bundles[ev.Severity]

	var sb strings.Builder
	sb.WriteString(b.Title)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "👤 Siswa: %s\n", studentName)
	fmt.Fprintf(&sb, "📚 Kelas: %s\n", className)
	fmt.Fprintf(&sb, "%s Pola: %s\n", b.PatternEmoji, b.PatternLabel)
	sb.WriteString("\n⚠️ REKOMENDASI TINDAK LANJUT GURU BK:\n")
	for i, rec := range b.Recommendations {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "📅 Tindakan: %s\n", b.Action)
	fmt.Fprintf(&sb, "⏰ Prioritas: %s", b.PriorityLabel)

	return sb.String()
}
