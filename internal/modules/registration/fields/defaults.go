package fields

// Defaults returns the six fields the registry is seeded with when empty.
func Defaults() []Definition {
	return []Definition{
		{Name: "childName", Label: "Nama Anak", Placeholder: "Masukkan nama lengkap anak", Kind: KindText, Required: true, Enabled: true, Order: 1},
		{Name: "parentName", Label: "Nama Orang Tua", Placeholder: "Masukkan nama lengkap orang tua", Kind: KindText, Required: true, Enabled: true, Order: 2},
		{Name: "email", Label: "Email", Placeholder: "contoh@email.com", Kind: KindEmail, Required: true, Enabled: true, Order: 3},
		{Name: "phone", Label: "Nomor Telepon/WhatsApp", Placeholder: "08123456789", Kind: KindTel, Required: true, Enabled: true, Order: 4},
		{Name: "address", Label: "Alamat", Placeholder: "Masukkan alamat lengkap (opsional)", Kind: KindTextarea, Required: false, Enabled: true, Order: 5},
		{Name: "message", Label: "Pesan/Pertanyaan", Placeholder: "Ada pertanyaan atau informasi tambahan? (opsional)", Kind: KindTextarea, Required: false, Enabled: true, Order: 6},
	}
}
