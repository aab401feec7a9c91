package seed

import (
	"strings"

	"gorm.io/gorm"
)

const demoUsers = `email,username,image_url,password,bio,header_image_url,location
steven@example.com,steven,,password,Birdwatcher and tea drinker.,,Portland
martin@example.com,martin,,password,,,Atlanta
grace@example.com,grace,,password,Writes compilers for fun.,,Arlington
`

const demoMessages = `text,timestamp,user_id
First warble!,2024-01-02 09:15:00,1
Anyone else up this early?,2024-01-02 05:40:00,2
Debugging is twice as hard as writing the code.,2024-01-03 14:00:00,3
The finches are back in the garden.,2024-01-04 08:30:00,1
`

const demoFollows = `user_being_followed_id,user_following_id
1,2
1,3
3,1
`

// Demo loads a handful of users, messages and follows. Every demo user's
// password is "password".
func Demo(db *gorm.DB) (Result, error) {
	return LoadFrom(db,
		strings.NewReader(demoUsers),
		strings.NewReader(demoMessages),
		strings.NewReader(demoFollows),
	)
}
