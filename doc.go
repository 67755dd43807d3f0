/*
Package sktable reads tables stored in the legacy Sk format used by
electronic dictionaries.

Data Structure Documentation

Table

A table is described by an INI-like definition file. Its DAT section names
the page file and declares the fields, in record order. Each field has a
declared type and, optionally, a storage type given by the "$NAME,OFFSET"
key. Fields with their own section and a PATH are variable fields.

    [DAT]
    PATH = words.dat
    $ID = uint32
    $HEADWORD = text
    $HEADWORD,OFFSET = uint32

    [HEADWORD]
    PATH = headword.dat
    COMPRESSION = zlib
    CATALOG = headword.cat

Page file

The page file is a series of fixed-size records, one per row. Values are
little-endian integers of 1, 2, 3 or 4 bytes, stored back to back.

    Page file layout:
    +----------+----------+---------+----------+
    | record 0 | record 1 |   ...   | record n |
    +----------+----------+---------+----------+

    Record layout:
    +--------------------+--------------------+-------+--------------------+
    | field 1 (w1 bytes) | field 2 (w2 bytes) |  ...  | field n (wn bytes) |
    +--------------------+--------------------+-------+--------------------+

3-byte values are widened to 4 bytes by appending a zero byte, there is no
sign extension.

Variable fields

The record value of a variable field is the offset of the item within the
field's storage file. An item ends where the next row's item starts; the
last item ends at the end of the storage file.

Storage files may be split into pages, each compressed independently with
deflate. A catalog then lists the sizes of each page:

    Catalog layout:
    +---------------------------+---------------------------+-------+
    | inflated size 1 (4 bytes) | deflated size 1 (4 bytes) |  ...  |
    +---------------------------+---------------------------+-------+

Item offsets address the inflated data. Page i starts at the sum of the
sizes of pages 0..i-1, in both the inflated and the deflated address space.
*/
package sktable
