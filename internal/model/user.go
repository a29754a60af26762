package model

// User is the portfolio owner's profile. Exactly one exists.
type User struct {
	Name    string
	Email   string
	Hero    string
	AboutMe string
	Image   string
	Address string
}

// UserPatch holds the profile fields to change. Nil fields are kept.
type UserPatch struct {
	Name    *string
	Email   *string
	Hero    *string
	AboutMe *string
	Image   *ImageRef
	Address *string
}

// Apply merges the set text fields onto u. The image is left to the caller
// because it may need an upload first.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Hero != nil {
		u.Hero = *p.Hero
	}
	if p.AboutMe != nil {
		u.AboutMe = *p.AboutMe
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	return u
}

// Document returns the persisted shape of the profile.
func (u User) Document() Document {
	return Document{
		"name":    u.Name,
		"email":   u.Email,
		"hero":    u.Hero,
		"aboutMe": u.AboutMe,
		"image":   u.Image,
		"address": u.Address,
	}
}

// UserFromDocument decodes the stored profile.
func UserFromDocument(doc Document) User {
	return User{
		Name:    doc.String("name"),
		Email:   doc.String("email"),
		Hero:    doc.String("hero"),
		AboutMe: doc.String("aboutMe"),
		Image:   doc.String("image"),
		Address: doc.String("address"),
	}
}
