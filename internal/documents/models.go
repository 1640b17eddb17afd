package documents

import "time"

// Document is the metadata row for one uploaded file. FileURL is what the
// store keeps: either an object key inside the bucket or a full http(s) URL
// for documents that live elsewhere. Clients never see it raw; List resolves
// it to a browser-usable URL.
type Document struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type documentRow struct {
	ID         string    `bson:"_id,omitempty"`
	UserID     string    `bson:"user_id"`
	FileName   string    `bson:"file_name"`
	FileURL    string    `bson:"file_url"`
	UploadedAt time.Time `bson:"uploaded_at"`
}

func fromRow(r documentRow) Document {
	return Document{
		ID:         r.ID,
		FileName:   r.FileName,
		FileURL:    r.FileURL,
		UploadedAt: r.UploadedAt,
	}
}
