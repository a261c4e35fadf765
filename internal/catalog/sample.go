package catalog

import "github.com/minthub/mintassist/internal/model"

// SampleFiles returns the seed catalog shipped with the storefront
func SampleFiles() []model.FileRecord {
	return []model.FileRecord{
		{ID: "FILE001", Name: "Adobe Photoshop 2024", Category: "soft-design", Size: "4.2 GB", Downloads: 15420, ViewCount: 45320,
			Link: "https://example.com/photoshop-2024", Description: "Phần mềm chỉnh sửa ảnh chuyên nghiệp hàng đầu thế giới",
			Image: "https://i.ibb.co/6y2kF2Q/photoshop-2024.jpg"},
		{ID: "FILE002", Name: "Microsoft Office 2024 Pro Plus", Category: "soft-office", Size: "2.8 GB", Downloads: 28950, ViewCount: 67890,
			Link: "https://example.com/office-2024", Description: "Bộ văn phòng hoàn chỉnh với Word, Excel, PowerPoint",
			Image: "https://i.ibb.co/mGvFpQJ/office-2024.jpg"},
		{ID: "FILE003", Name: "Grand Theft Auto VI", Category: "game-pc", Size: "125 GB", Downloads: 89320, ViewCount: 234560,
			Link: "https://example.com/gta-vi", Description: "Game hành động thế giới mở cực kỳ hấp dẫn",
			Image: "https://i.ibb.co/3sL8tXQ/gta-vi.jpg"},
		{ID: "FILE004", Name: "Windows 11 Pro", Category: "tools-system", Size: "5.1 GB", Downloads: 45670, ViewCount: 123450,
			Link: "https://example.com/windows-11", Description: "Hệ điều hành Windows 11 Pro bản quyền",
			Image: "https://i.ibb.co/2W8tKdQ/windows-11.jpg"},
		{ID: "FILE005", Name: "Adobe Premiere Pro 2024", Category: "soft-design", Size: "3.5 GB", Downloads: 12340, ViewCount: 34560,
			Link: "https://example.com/premiere-pro", Description: "Phần mềm dựng video chuyên nghiệp",
			Image: "https://i.ibb.co/8Xk4tYp/premiere-pro.jpg"},
		{ID: "FILE006", Name: "Visual Studio 2024", Category: "soft-dev", Size: "8.7 GB", Downloads: 8760, ViewCount: 23450,
			Link: "https://example.com/vs-2024", Description: "Môi trường phát triển .NET và C++",
			Image: "https://i.ibb.co/7nK9mTq/vs-2024.jpg"},
		{ID: "FILE007", Name: "FIFA 2024", Category: "game-pc", Size: "52 GB", Downloads: 65430, ViewCount: 187650,
			Link: "https://example.com/fifa-2024", Description: "Game bóng đá FIFA mới nhất",
			Image: "https://i.ibb.co/9pL4kRf/fifa-2024.jpg"},
		{ID: "FILE008", Name: "Adobe Illustrator 2024", Category: "soft-design", Size: "2.9 GB", Downloads: 9870, ViewCount: 28900,
			Link: "https://example.com/illustrator", Description: "Phần mềm thiết kế đồ họa vector",
			Image: "https://i.ibb.co/4mK8tWs/illustrator.jpg"},
		{ID: "FILE009", Name: "KMSpico Activator", Category: "tools-security", Size: "2.1 MB", Downloads: 156780, ViewCount: 456780,
			Link: "https://example.com/kmspico", Description: "Công cụ kích hoạt Windows và Office",
			Image: "https://i.ibb.co/5tL9mXk/kmspico.jpg"},
		{ID: "FILE010", Name: "Adobe After Effects 2024", Category: "soft-design", Size: "3.8 GB", Downloads: 7650, ViewCount: 19870,
			Link: "https://example.com/after-effects", Description: "Phần mềm hiệu ứng hình ảnh chuyên nghiệp",
			Image: "https://i.ibb.co/6nK8tYr/after-effects.jpg"},
		{ID: "FILE011", Name: "CCleaner Professional", Category: "tools-system", Size: "25 MB", Downloads: 34560, ViewCount: 87650,
			Link: "https://example.com/ccleaner", Description: "Phần mềm dọn rác và tối ưu hệ thống",
			Image: "https://i.ibb.co/7mL9tZp/ccleaner.jpg"},
		{ID: "FILE012", Name: "Adobe Acrobat Pro DC 2024", Category: "soft-office", Size: "1.2 GB", Downloads: 18970, ViewCount: 45680,
			Link: "https://example.com/acrobat", Description: "Phần mềm làm việc với file PDF chuyên nghiệp",
			Image: "https://i.ibb.co/8nK9tXq/acrobat.jpg"},
		{ID: "FILE013", Name: "Lập trình Python từ A-Z", Category: "doc-education", Size: "125 MB", Downloads: 23450, ViewCount: 67890,
			Link: "https://example.com/python-course", Description: "Khóa học lập trình Python đầy đủ",
			Image: "https://i.ibb.co/9pL4kRf/python-course.jpg"},
		{ID: "FILE014", Name: "Adobe Dreamweaver 2024", Category: "soft-dev", Size: "1.8 GB", Downloads: 4560, ViewCount: 12340,
			Link: "https://example.com/dreamweaver", Description: "Phần mềm thiết kế web chuyên nghiệp",
			Image: "https://i.ibb.co/5tL9mXk/dreamweaver.jpg"},
		{ID: "FILE015", Name: "Tài liệu ôn thi Đại học", Category: "doc-ebook", Size: "450 MB", Downloads: 56780, ViewCount: 123450,
			Link: "https://example.com/tailieu-daihoc", Description: "Tổng hợp tài liệu ôn thi đại học các môn",
			Image: "https://i.ibb.co/6nK8tYr/tailieu-daihoc.jpg"},
	}
}
