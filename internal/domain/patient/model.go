package patient

// Patient maps to the patients table. A Patient value only exists after every
// field rule has passed; the transformer is its sole producer and it is not
// mutated afterwards.
type Patient struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	DOB     string `db:"dob" json:"dob"` // normalized YYYY-MM-DD
	Gender  string `db:"gender" json:"gender"`
	Address string `db:"address" json:"address"`
	Email   string `db:"email" json:"email"`
	Phone   string `db:"phone" json:"phone"`
	Sex     string `db:"sex" json:"sex"`
}
