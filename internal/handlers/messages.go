package handlers

// Client-facing messages. The UI is Turkish-localized; these strings are
// part of the wire contract with the existing frontend.
const (
	msgUnauthorized       = "Yetkilendirme gerekli"
	msgServerError        = "Sunucu hatası"
	msgInvalidRequest     = "Geçersiz istek"
	msgNoProjectAccess    = "Bu projeye erişim yetkiniz yok"
	msgNoPermission       = "Bu işlem için yetkiniz yok"
	msgProjectNotFound    = "Proje bulunamadı"
	msgProjectFieldsReq   = "Proje adı ve kodu gereklidir"
	msgProjectKeyTaken    = "Bu proje kodu zaten kullanılıyor"
	msgUserNotFound       = "Kullanıcı bulunamadı"
	msgUserIDRequired     = "Kullanıcı ID gereklidir"
	msgAlreadyMember      = "Bu kullanıcı zaten proje üyesi"
	msgMemberNotFound     = "Üye bulunamadı"
	msgInvalidRole        = "Geçerli bir rol belirtiniz"
	msgOwnerRoleProtected = "Proje sahibinin rolü değiştirilemez"
	msgOwnerNotRemovable  = "Proje sahibi çıkarılamaz"
	msgMemberRemoved      = "Üye başarıyla çıkarıldı"
	msgIssueTitleRequired = "Görev başlığı gereklidir"
	msgIssueNotFound      = "Görev bulunamadı"
	msgAssigneeNotMember  = "Atanan kişi bu projenin üyesi değil"
	msgInvalidIssueType   = "Geçersiz görev türü"
	msgInvalidStatus      = "Geçersiz durum değeri"
	msgInvalidPriority    = "Geçersiz öncelik değeri"
	msgCommentRequired    = "Yorum içeriği gereklidir"
	msgEmailParamRequired = "E-posta parametresi gerekli"
	msgRegisterFieldsReq  = "Ad, e-posta ve şifre gereklidir"
	msgEmailTaken         = "Bu e-posta adresi zaten kullanılıyor"
	msgBadCredentials     = "E-posta veya şifre hatalı"
	msgLogoutOK           = "Çıkış başarılı"
	msgAvatarNotFound     = "Avatar bulunamadı"
	msgAvatarUnavailable  = "Avatar depolama yapılandırılmamış"
)
